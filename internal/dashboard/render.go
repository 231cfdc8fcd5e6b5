package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"math"

	"github.com/monicalopezucha/practica-final/internal/dataset"
	"github.com/monicalopezucha/practica-final/internal/favorites"
	"github.com/monicalopezucha/practica-final/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageData feeds templates/index.html.
type pageData struct {
	Brands      []string
	Selected    string
	Liked       bool
	Notice      *favorites.Notice
	Summary     dataset.Summary
	LikedBrands []models.LikedBrand
}

type chartRow struct {
	Label   string
	Count   int
	Percent int
}

type chartData struct {
	Title string
	Rows  []chartRow
}

var funcs = template.FuncMap{
	"chart": func(title string, counts []dataset.Count) chartData {
		peak := dataset.Max(counts)
		rows := make([]chartRow, 0, len(counts))
		for _, c := range counts {
			pct := 0
			if peak > 0 {
				pct = int(math.Round(float64(c.Count) * 100 / float64(peak)))
			}
			rows = append(rows, chartRow{Label: c.Label, Count: c.Count, Percent: pct})
		}
		return chartData{Title: title, Rows: rows}
	},
	"money": func(v float64) string {
		return formatMoney(v)
	},
}

func parseTemplates() *template.Template {
	return template.Must(template.New("index.html").Funcs(funcs).ParseFS(templatesFS, "templates/index.html"))
}

// formatMoney renders v as whole dollars with thousands separators.
func formatMoney(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-$" + s
	}
	return "$" + s
}
