package metadata

import (
	"encoding/json"
	"time"

	"folio/internal/book"
)

type attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type properties struct {
	ISBN     string `json:"isbn"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

// document is the fixed ERC-721 metadata schema consumers of the token
// expect. Field set and ordering are part of the published contract; do not
// reshape without versioning the tokens that reference it.
type document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []attribute `json:"attributes"`
	Properties  properties  `json:"properties"`
}

func (c *Client) buildDocument(req book.MintRequest) ([]byte, error) {
	mintDate := c.now().UTC().Format(time.RFC3339)
	doc := document{
		Name:        req.Title,
		Description: "Digital ownership certificate for ISBN: " + req.ISBN,
		Image:       placeholderImage,
		Attributes: []attribute{
			{TraitType: "ISBN", Value: req.ISBN},
			{TraitType: "Title", Value: req.Title},
			{TraitType: "Author", Value: req.Author},
			{TraitType: "Mint Date", Value: mintDate},
		},
		Properties: properties{
			ISBN:     req.ISBN,
			Title:    req.Title,
			Author:   req.Author,
			Category: "book",
			Type:     "ownership-certificate",
		},
	}
	return json.Marshal(doc)
}
