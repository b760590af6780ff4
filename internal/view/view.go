// Package view renders the pages of the app. Every function is pure: the same
// input always yields the same markup.
package view

import (
	"embed"
	"html/template"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"isoDate":    ISODate,
		"frenchDate": FrenchDate,
		"amount":     FormatAmount,
	}).ParseFS(templateFS, "templates/*.html"),
)

// Icon names a sidebar entry.
type Icon string

const (
	IconNone   Icon = ""
	IconWindow Icon = "window"
	IconMail   Icon = "mail"
)

// Layout is the page chrome shared by every screen.
type Layout struct {
	Employee bool
	Active   Icon
}

type BillsPage struct {
	Layout  Layout
	Bills   []*bill.Bill
	Error   string
	Loading bool
}

// BillsUI renders the bills list, or the loading or error page when asked to.
// Bills are rendered in the order given.
func BillsUI(p BillsPage) string {
	if p.Loading {
		return LoadingPage(p.Layout)
	}

	if p.Error != "" {
		return ErrorPage(p.Layout, p.Error)
	}

	return render("bills", p)
}

func LoadingPage(l Layout) string {
	return render("loading", l)
}

// ErrorPage shows msg verbatim inside the page chrome.
func ErrorPage(l Layout, msg string) string {
	return render("error", struct {
		Layout  Layout
		Message string
	}{l, msg})
}

// BillForm holds the values typed in the new bill form, so a rejected
// submission can be shown again as it was.
type BillForm struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
}

type NewBillPage struct {
	Layout Layout
	Alert  string
	Values BillForm
}

func NewBillUI(p NewBillPage) string {
	return render("newbill", struct {
		NewBillPage
		Types []string
	}{p, bill.Types})
}

// Preview is the content of the receipt modal.
type Preview struct {
	URL      string
	FileName string
	Image    bool
	Width    int
}

func PreviewUI(p Preview) string {
	return render("preview", p)
}

func LoginUI() string {
	return render("login", nil)
}

// Document wraps a rendered page into a full HTML document. body must come
// from one of the renderers of this package.
func Document(title, body string) string {
	return render("document", struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body)})
}

func render(name string, data any) string {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		slog.Error("failed to render view", "view", name, "error", err)
		return ""
	}

	return sb.String()
}
