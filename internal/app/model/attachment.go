package model

// Attachment holds the metadata of an uploaded file. Stored as a JSON
// column so it works on both postgres and the sqlite test database.
type Attachment struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// InformationLink is a labelled external reference attached to catalog rows.
type InformationLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Detail is a free-form name/value pair describing a product.
type Detail struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
