package model

type Banner struct {
	ID       string `json:"_id,omitempty" bson:"_id,omitempty"`
	Image    string `json:"url" bson:"image"`
	Title    string `json:"title,omitempty" bson:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Index    int    `json:"index" bson:"index"`
}
