package cms

import (
	"time"

	"github.com/dropkit/storefront/internal/catalog/normalize"
)

// queryResponse mirrors the database query endpoint payload.
type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type page struct {
	ID             string              `json:"id"`
	CreatedTime    *time.Time          `json:"created_time"`
	LastEditedTime *time.Time          `json:"last_edited_time"`
	Properties     map[string]property `json:"properties"`
}

// property is the union of every property shape the extraction understands.
// The CMS sends whichever fields match the property type; the rest stay zero.
type property struct {
	Type        string         `json:"type"`
	Title       []richText     `json:"title"`
	RichText    []richText     `json:"rich_text"`
	Number      *float64       `json:"number"`
	Checkbox    *bool          `json:"checkbox"`
	Select      *selectOption  `json:"select"`
	MultiSelect []selectOption `json:"multi_select"`
	Files       []fileRef      `json:"files"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type selectOption struct {
	Name string `json:"name"`
}

type fileRef struct {
	Name     string   `json:"name"`
	File     *fileURL `json:"file"`
	External *fileURL `json:"external"`
}

type fileURL struct {
	URL string `json:"url"`
}

// Property names expected in the content database. Editors occasionally remove
// or rename columns; a missing property just leaves the field absent.
const (
	propName        = "Name"
	propDescription = "Description"
	propPrice       = "Price"
	propImages      = "Images"
	propCategory    = "Category"
	propSize        = "Size"
	propInStock     = "InStock"
	propLevel       = "Level"
	propBlocked     = "Blocked"
	propDrop        = "Drop"
)

// extractRecord pulls whatever fields are present on the page into a raw
// record. All defaulting happens later in normalize.Normalize.
func extractRecord(p page) normalize.RawProduct {
	raw := normalize.RawProduct{
		CreatedTime:    p.CreatedTime,
		LastEditedTime: p.LastEditedTime,
	}
	if p.ID != "" {
		id := p.ID
		raw.ID = &id
	}

	raw.Name = textValue(p.Properties, propName)
	raw.Description = textValue(p.Properties, propDescription)
	raw.Category = labelValue(p.Properties, propCategory)
	raw.Size = labelValue(p.Properties, propSize)
	raw.DropID = labelValue(p.Properties, propDrop)
	raw.InStock = checkboxValue(p.Properties, propInStock)
	raw.Blocked = checkboxValue(p.Properties, propBlocked)

	if prop, ok := p.Properties[propPrice]; ok && prop.Number != nil {
		raw.Price = prop.Number
	}
	if prop, ok := p.Properties[propLevel]; ok && prop.Number != nil {
		level := int(*prop.Number)
		raw.Level = &level
	}
	if prop, ok := p.Properties[propImages]; ok && len(prop.Files) > 0 {
		images := make([]string, 0, len(prop.Files))
		for _, f := range prop.Files {
			switch {
			case f.File != nil && f.File.URL != "":
				images = append(images, f.File.URL)
			case f.External != nil && f.External.URL != "":
				images = append(images, f.External.URL)
			}
		}
		raw.Images = images
	}

	return raw
}

// textValue joins a title or rich text property into a plain string.
func textValue(props map[string]property, name string) *string {
	prop, ok := props[name]
	if !ok {
		return nil
	}
	fragments := prop.Title
	if len(fragments) == 0 {
		fragments = prop.RichText
	}
	if len(fragments) == 0 {
		return nil
	}
	text := ""
	for _, f := range fragments {
		text += f.PlainText
	}
	if text == "" {
		return nil
	}
	return &text
}

// labelValue reads a select property, taking the first option when the column
// was configured as multi-select.
func labelValue(props map[string]property, name string) *string {
	prop, ok := props[name]
	if !ok {
		return nil
	}
	if prop.Select != nil && prop.Select.Name != "" {
		return &prop.Select.Name
	}
	if len(prop.MultiSelect) > 0 && prop.MultiSelect[0].Name != "" {
		return &prop.MultiSelect[0].Name
	}
	return nil
}

func checkboxValue(props map[string]property, name string) *bool {
	prop, ok := props[name]
	if !ok || prop.Checkbox == nil {
		return nil
	}
	return prop.Checkbox
}
