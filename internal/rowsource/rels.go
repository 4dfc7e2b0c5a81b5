package rowsource

import (
	"encoding/xml"

	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// relationships is the root element of a .rels XML document.
type relationships struct {
	Relationship []relationship `xml:"Relationship"`
}

// relationship is one entry in a .rels XML document.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

// parseRels parses the raw bytes of a .rels XML file and returns a map of
// relationship ID to target path.
func parseRels(data []byte) (map[string]string, error) {
	var r relationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindXMLMalformed, "workbook relationships", err)
	}
	m := make(map[string]string, len(r.Relationship))
	for _, rel := range r.Relationship {
		m[rel.ID] = rel.Target
	}
	return m, nil
}
