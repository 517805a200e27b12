// Package receipt renders point-of-sale receipts as 80mm thermal-printer PDF
// documents sized exactly to their content.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	mm      = 72.0 / 25.4 // points per millimeter
	widthPt = 80 * mm     // 80mm thermal roll
	margin  = 8.0
	lineH   = 14.0
)

// Item is one sold line on the receipt.
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	// UnitPrice is the per-unit price in AED.
	UnitPrice float64 `json:"unitPrice"`
	// Total overrides quantity*unitPrice when the caller has already
	// computed a discounted line total.
	Total *float64 `json:"total,omitempty"`
}

// LineTotal returns the charged amount for the line.
func (i Item) LineTotal() float64 {
	if i.Total != nil {
		return *i.Total
	}
	return i.Quantity * i.UnitPrice
}

// Payload is the sale data a receipt is rendered from. Field names follow
// the POS front end's JSON.
type Payload struct {
	CompanyName    string   `json:"companyName"`
	CompanyAddress string   `json:"companyAddress"`
	CompanyPhone   string   `json:"companyPhone"`
	ReceiptNo      string   `json:"receiptNo"`
	Date           string   `json:"date"`
	PaymentMethod  string   `json:"paymentMethod"`
	Items          []Item   `json:"items"`
	Subtotal       *float64 `json:"subtotal,omitempty"`
	VAT            *float64 `json:"vat,omitempty"`
	Total          float64  `json:"total"`
	PaidAmount     *float64 `json:"paidAmount,omitempty"`
}

// fmtAmount renders a money value the way the receipt printer expects.
func fmtAmount(v float64) string {
	return fmt.Sprintf("%.2f AED", v)
}

// DeriveTotals fills in subtotal and VAT when the POS did not supply them:
// the subtotal falls back to the item sum and VAT to the non-negative gap
// between total and subtotal.
func (p *Payload) DeriveTotals() (subtotal, vat float64) {
	var itemSum float64
	for _, item := range p.Items {
		itemSum += item.LineTotal()
	}

	subtotal = itemSum
	if p.Subtotal != nil {
		subtotal = *p.Subtotal
	}
	if p.VAT != nil {
		vat = *p.VAT
	} else {
		vat = p.Total - subtotal
		if vat < 0 {
			vat = 0
		}
	}
	return subtotal, vat
}

// defaults fills presentation fallbacks for missing fields.
func (p *Payload) defaults(now time.Time) {
	if p.CompanyName == "" {
		p.CompanyName = "Company Name"
	}
	if p.ReceiptNo == "" {
		p.ReceiptNo = "-"
	}
	if p.Date == "" {
		p.Date = now.Format("02/01/2006")
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = "-"
	}
}

// contentHeight computes the exact page height the receipt needs. The layout
// arithmetic must stay in lockstep with render.
func (p *Payload) contentHeight() float64 {
	h := margin + 10 + lineH // top margin + company name
	if p.CompanyAddress != "" {
		h += lineH
	}
	if p.CompanyPhone != "" {
		h += lineH
	}
	h += 4 + lineH                 // rule under the header
	h += lineH + lineH + 4         // receipt no label + value
	h += lineH + lineH + 4         // payment method label + value
	h += lineH + lineH + 8         // date label + value
	h += lineH + lineH + 4         // rule + ITEMS heading
	h += float64(len(p.Items)) * (lineH - 2 + lineH + 4)
	h += 2 + lineH                 // rule + items count
	h += lineH * 3                 // subtotal, vat, total
	h += lineH + 10                // paid amount
	h += lineH + margin            // thank-you line + bottom margin
	return h
}

// Filename returns the download name for a rendered receipt.
func Filename(receiptNo string, now time.Time) string {
	if receiptNo == "" {
		receiptNo = "noid"
	}
	return fmt.Sprintf("receipt_%s_%s.pdf", receiptNo, now.Format("20060102"))
}

// Build renders the receipt PDF. The page is cut to the content height with
// a 100mm minimum so very short receipts still feed cleanly.
func Build(p Payload, now time.Time) ([]byte, error) {
	p.defaults(now)

	height := p.contentHeight()
	if min := 100 * mm; height < min {
		height = min
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: widthPt, Ht: height},
	})
	pdf.SetTitle("Receipt", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	center := func(text string, y, size float64) {
		pdf.SetFont("Helvetica", "", size)
		w := pdf.GetStringWidth(text)
		pdf.Text((widthPt-w)/2, y, text)
	}
	left := func(text string, x, y, size float64) {
		pdf.SetFont("Helvetica", "", size)
		pdf.Text(x, y, text)
	}
	right := func(text string, xRight, y, size float64) {
		pdf.SetFont("Helvetica", "", size)
		w := pdf.GetStringWidth(text)
		pdf.Text(xRight-w, y, text)
	}
	rule := func(y float64) {
		pdf.SetLineWidth(0.6)
		pdf.Line(margin, y, widthPt-margin, y)
	}

	y := margin + 10
	center(p.CompanyName, y, 12)
	y += lineH
	if p.CompanyAddress != "" {
		center(p.CompanyAddress, y, 11)
		y += lineH
	}
	if p.CompanyPhone != "" {
		center("Phone: "+p.CompanyPhone, y, 11)
		y += lineH
	}
	y += 4
	rule(y)
	y += lineH

	left("Receipt No:", margin, y, 10)
	y += lineH
	left(p.ReceiptNo, margin+10, y, 10)
	y += lineH + 4

	left("Payment Method:", margin, y, 10)
	y += lineH
	left(strings.ToUpper(p.PaymentMethod), margin+10, y, 10)
	y += lineH + 4

	left("Date:", margin, y, 10)
	y += lineH
	left(p.Date, margin+10, y, 10)
	y += lineH + 8

	rule(y)
	y += lineH
	center("ITEMS", y, 11)
	y += lineH + 4

	for _, item := range p.Items {
		meta := fmt.Sprintf("%g x %.2f AED", item.Quantity, item.UnitPrice)
		left(item.Name, margin, y, 10)
		y += lineH - 2
		left(meta, margin+4, y, 10)
		right(fmtAmount(item.LineTotal()), widthPt-margin, y, 10)
		y += lineH + 4
	}

	y += 2
	rule(y)
	y += lineH
	left("Items count:", margin, y, 10)
	right(fmt.Sprintf("%d", len(p.Items)), widthPt-margin, y, 10)
	y += lineH

	subtotal, vat := p.DeriveTotals()
	left("Subtotal:", margin, y, 10)
	right(fmtAmount(subtotal), widthPt-margin, y, 10)
	y += lineH
	left("VAT:", margin, y, 10)
	right(fmtAmount(vat), widthPt-margin, y, 10)
	y += lineH
	left("TOTAL:", margin, y, 10)
	right(fmtAmount(p.Total), widthPt-margin, y, 10)
	y += lineH

	paid := p.Total
	if p.PaidAmount != nil {
		paid = *p.PaidAmount
	}
	left("Paid amount:", margin, y, 10)
	right(fmtAmount(paid), widthPt-margin, y, 10)
	y += lineH + 10

	center("Thank you for your purchase!", y, 10)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}
	return buf.Bytes(), nil
}
