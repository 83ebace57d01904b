package jira

import "strings"

// Jira Cloud stores rich-text fields in the Atlassian Document Format.
// Taskdeck only writes plain text, so the codec here covers a single
// paragraph on the way out and a flattening walk on the way in.

type adfDoc struct {
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Content []adfNode `json:"content,omitempty"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// adfFromText wraps plain text in a minimal ADF document.
func adfFromText(text string) *adfDoc {
	return &adfDoc{
		Type:    "doc",
		Version: 1,
		Content: []adfNode{
			{
				Type:    "paragraph",
				Content: []adfNode{{Type: "text", Text: text}},
			},
		},
	}
}

// plainText flattens an ADF document back to plain text, joining the text
// nodes of each paragraph with spaces.
func (d *adfDoc) plainText() string {
	if d == nil {
		return ""
	}

	var parts []string
	for _, block := range d.Content {
		if block.Type != "paragraph" {
			continue
		}
		for _, node := range block.Content {
			if node.Type == "text" && node.Text != "" {
				parts = append(parts, node.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}
