package printing

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"golang.org/x/text/cases"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/work_order.html
var workOrderTemplate string

const photosKey = "%d photos attached"

// first entry is the fallback
var supportedLanguages = []language.Tag{language.Polish, language.English}

// Polish labels; English falls back to the keys
var polishLabels = map[string]string{
	"Work order":  "Zlecenie",
	"Order ID":    "Numer zlecenia",
	"Visit date":  "Termin wizyty",
	"Phone":       "Telefon",
	"Address":     "Adres",
	"Description": "Opis usterki",
	"Photos":      "Zdjęcia",
	"Submitted":   "Przyjęto",
	"Handyman":    "Podpis fachowca",
	"Customer":    "Podpis klienta",
	"New":         "Nowe",
	"In progress": "W realizacji",
	"Completed":   "Zakończone",
	"Cancelled":   "Anulowane",
}

func init() {
	for key, msg := range polishLabels {
		_ = message.SetString(language.Polish, key, msg)
	}
	_ = message.Set(language.English, photosKey, plural.Selectf(1, "%d",
		"=0", "No photos",
		"=1", "1 photo attached",
		"other", "%d photos attached"))
	_ = message.Set(language.Polish, photosKey, plural.Selectf(1, "%d",
		"=0", "Brak zdjęć",
		"one", "1 zdjęcie",
		"few", "%d zdjęcia",
		"other", "%d zdjęć"))
}

// WorkOrderPrinter turns an order into a printable work order
type WorkOrderPrinter struct {
	renderer PDFRenderer
	tmpl     *template.Template
	lang     language.Tag
	printer  *message.Printer
	company  string
}

// NewWorkOrderPrinter parses the work order template for lang ("pl", "en")
func NewWorkOrderPrinter(renderer PDFRenderer, lang, company string) (*WorkOrderPrinter, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid printing language %q: %w", lang, err)
	}
	_, idx, _ := language.NewMatcher(supportedLanguages).Match(tag)
	tag = supportedLanguages[idx]

	p := &WorkOrderPrinter{
		renderer: renderer,
		lang:     tag,
		printer:  message.NewPrinter(tag),
		company:  company,
	}

	p.tmpl, err = template.New("work_order").Funcs(template.FuncMap{
		"upper": func(s string) string { return cases.Upper(tag).String(s) },
		"t":     func(key string) string { return p.printer.Sprintf(key) },
	}).Parse(workOrderTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse work order template", err)
	}
	return p, nil
}

type workOrderView struct {
	Lang        string
	Title       string
	Company     string
	ID          string
	ShortID     string
	StatusLabel string
	VisitDate   string
	Phone       string
	Address     string
	Description string
	PhotoCount  string
	Photos      []string
	Submitted   string
}

func (p *WorkOrderPrinter) view(order *booking.Order) workOrderView {
	visit := order.SelectedDate
	if day, err := valueobject.ParseDay(order.SelectedDate); err == nil {
		visit = day.Time().Format("02.01.2006")
	}
	title := p.printer.Sprintf("Work order") + " #" + order.ShortID()
	return workOrderView{
		Lang:        p.lang.String(),
		Title:       title,
		Company:     p.company,
		ID:          order.ID.String(),
		ShortID:     order.ShortID(),
		StatusLabel: p.printer.Sprintf(order.Status.Label()),
		VisitDate:   visit,
		Phone:       order.Phone,
		Address:     order.Address,
		Description: order.Description,
		PhotoCount:  p.printer.Sprintf(photosKey, order.PhotoCount()),
		Photos:      order.Photos,
		Submitted:   order.CreatedAt.UTC().Format("02.01.2006 15:04 UTC"),
	}
}

// RenderHTML executes the template for order
func (p *WorkOrderPrinter) RenderHTML(order *booking.Order) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, p.view(order)); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to render work order", err)
	}
	return buf.String(), nil
}

// Print renders the work order of order to PDF
func (p *WorkOrderPrinter) Print(ctx context.Context, order *booking.Order) (*RenderResult, error) {
	doc, err := p.RenderHTML(order)
	if err != nil {
		return nil, err
	}
	return p.renderer.Render(ctx, &RenderRequest{
		HTML:       doc,
		Title:      p.view(order).Title,
		Margins:    DefaultMargins(),
		FooterHTML: footerTemplate(time.Now()),
	})
}

// WorkOrderFilename is the download name of an order's PDF
func WorkOrderFilename(order *booking.Order) string {
	return "work-order-" + order.ShortID() + ".pdf"
}

// footerTemplate uses Chrome's pageNumber/totalPages placeholders
func footerTemplate(printedAt time.Time) string {
	return `<div style="font-size:8pt;width:100%;text-align:center;color:#777;">` +
		printedAt.UTC().Format("2006-01-02 15:04") +
		` &middot; <span class="pageNumber"></span>/<span class="totalPages"></span></div>`
}
