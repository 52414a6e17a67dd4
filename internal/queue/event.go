// Package queue defines message payloads exchanged over the message broker.
package queue

const EmailQueueName = "email.requested"

// EmailRequestedEvent はメール送信依頼。apiが発行し、workerが消費する。
type EmailRequestedEvent struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
