package notion

import "github.com/jomei/notionapi"

func text(s string) []notionapi.RichText {
	return []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}}}
}

// Title builds a title property value.
func Title(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{Type: notionapi.PropertyTypeTitle, Title: text(s)}
}

// RichText builds a rich_text property value. Notion caps a text object at
// 2000 characters, so longer values are cut.
func RichText(s string) notionapi.RichTextProperty {
	if r := []rune(s); len(r) > maxTextLen {
		s = string(r[:maxTextLen])
	}
	return notionapi.RichTextProperty{Type: notionapi.PropertyTypeRichText, RichText: text(s)}
}

// Number builds a number property value.
func Number(n float64) notionapi.NumberProperty {
	return notionapi.NumberProperty{Type: notionapi.PropertyTypeNumber, Number: n}
}

// Select builds a select property value.
func Select(name string) notionapi.SelectProperty {
	return notionapi.SelectProperty{Type: notionapi.PropertyTypeSelect, Select: notionapi.Option{Name: name}}
}

const maxTextLen = 2000
