package pipeline

import (
	"fmt"
	"strings"

	"github.com/trendscope/analyzer/internal/domain"
)

const productGuessWords = 7

// untitledLabel is shown for posts without any text.
const untitledLabel = "Başlıksız"

// turkishMonths are the short month names used by the dashboard date column.
var turkishMonths = [...]string{
	"Oca", "Şub", "Mar", "Nis", "May", "Haz",
	"Tem", "Ağu", "Eyl", "Eki", "Kas", "Ara",
}

// Flatten reduces a post's structured sub-objects to the scalar presentation
// fields persistence and display expect. Nested metadata never survives the
// hand-off to a collaborator.
func Flatten(p *domain.ScoredPost) {
	p.AuthorName = p.Author.DisplayName
	if p.AuthorName != "" {
		p.ProfileURL = "https://www.tiktok.com/@" + p.AuthorName
	}
	p.CoverImageURL = p.Video.CoverURL
	if p.CoverImageURL == "" {
		p.CoverImageURL = p.Author.CoverImageURL
	}
	p.ProductGuess = productGuess(p.Text)
	p.DisplayDate = displayDate(p.CreatedAt)
}

// productGuess approximates a product title from the first few words of the
// post text.
func productGuess(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return untitledLabel
	}
	if len(words) > productGuessWords {
		words = words[:productGuessWords]
	}
	return strings.Join(words, " ") + "..."
}

// displayDate renders "7 Ara 2025" style dates; unknown timestamps render
// empty.
func displayDate(ts domain.Timestamp) string {
	if !ts.Valid {
		return ""
	}
	return fmt.Sprintf("%d %s %d", ts.Day(), turkishMonths[ts.Month()-1], ts.Year())
}
