package client

import (
	"html/template"
	"strings"
)

// reviewsTmpl renders the feed as an HTML fragment. html/template escapes
// every user-supplied field, so review text can never inject markup.
var reviewsTmpl = template.Must(template.New("reviews").Funcs(template.FuncMap{
	"stars": starBar,
}).Parse(`{{range .}}<div class="review-card">
  <div class="review-header">
    {{if .Image}}<img src="{{.Image}}" alt="{{.Name}}">{{end}}
    <h4>{{.Name}}</h4>
    <div class="rating">{{stars .Rating}}</div>
  </div>
  <p>{{.Description}}</p>
  <small>{{.CreatedAt.Format "Jan 2, 2006"}}</small>
</div>
{{else}}<p>No reviews yet. Be the first to share your experience!</p>
{{end}}`))

func starBar(rating int) string {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		if i < rating {
			b.WriteRune('★')
		} else {
			b.WriteRune('☆')
		}
	}
	return b.String()
}

// RenderReviews produces a sanitized HTML fragment for the given reviews.
func RenderReviews(reviews []Review) (string, error) {
	var b strings.Builder
	if err := reviewsTmpl.Execute(&b, reviews); err != nil {
		return "", err
	}
	return b.String(), nil
}
