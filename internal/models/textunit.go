package models

// TextUnit is one retained table row rendered as a sentence.
type TextUnit struct {
	Text   string
	Source string
	Row    int
}

// Texts returns the sentences of units in the same order.
func Texts(units []TextUnit) []string {
	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text
	}
	return texts
}
