package model

type Genre struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

type Star struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

type Director struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

type Certification struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

// name+year+time で同一作品とみなす
type Movie struct {
	ID              int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID            string  `gorm:"type:varchar(36);not null" json:"uuid"`
	Name            string  `gorm:"type:varchar(255);not null;uniqueIndex:uq_movie,priority:1" json:"name"`
	Year            int     `gorm:"not null;uniqueIndex:uq_movie,priority:2" json:"year"`
	Time            int     `gorm:"not null;uniqueIndex:uq_movie,priority:3" json:"time"`
	IMDb            float64 `gorm:"column:imdb;not null" json:"imdb"`
	Votes           int64   `gorm:"not null" json:"votes"`
	MetaScore       float64 `json:"meta_score"`
	Gross           float64 `json:"gross"`
	Description     string  `gorm:"type:text" json:"description"`
	Price           float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	CertificationID int64   `gorm:"not null" json:"certification_id"`

	Certification Certification `gorm:"foreignKey:CertificationID" json:"certification"`
	Genres        []Genre       `gorm:"many2many:movies_genres" json:"genres"`
	Stars         []Star        `gorm:"many2many:stars_movies" json:"stars"`
	Directors     []Director    `gorm:"many2many:directors_movies" json:"directors"`
}
