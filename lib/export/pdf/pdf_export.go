package pdfexport

import (
	"bytes"
	"html/template"
	paymentapimodels "jobmarket-backend/models/api/payment"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Provider interface {
	// DistributionReceipt квитанция по оплаченной выплате
	DistributionReceipt(item paymentapimodels.DistributionView) ([]byte, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

func NewProvider() Provider {
	return impl{}
}

type impl struct{}

// базовые шрифты pdf не содержат кириллицы, квитанция на латинице
const receiptTemplate = `<b>Job:</b> {{.JobID}}<br>` +
	`<b>Distribution:</b> {{.ID}}<br>` +
	`<b>Recipient:</b> {{.RecipientType}} {{.RecipientID}}<br>` +
	`<b>Role:</b> {{.Role}}<br>` +
	`<b>Share:</b> {{.Share}} %<br>` +
	`<b>Amount:</b> {{.Amount}} {{.Currency}}<br>` +
	`<b>Claimed at:</b> {{.ClaimedAt}}<br>` +
	`<b>Paid at:</b> {{.PaidAt}}<br>` +
	`<b>Transaction:</b> {{.TransactionHash}}<br>`

var receiptTpl = template.Must(template.New("receipt").Parse(receiptTemplate))

type receiptData struct {
	paymentapimodels.DistributionView
	Share     string
	Amount    string
	ClaimedAt string
	PaidAt    string
}

func (i impl) DistributionReceipt(item paymentapimodels.DistributionView) (result []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("DistributionReceipt panic recover: %v", r)
		}
	}()
	data := receiptData{
		DistributionView: item,
		Share:            item.Percentage.StringFixed(2),
		Amount:           decimal.New(item.Amount, -2).StringFixed(2),
		ClaimedAt:        formatTime(item.ClaimedAt),
		PaidAt:           formatTime(item.PaidAt),
	}
	body := new(bytes.Buffer)
	if err = receiptTpl.Execute(body, data); err != nil {
		return nil, errors.Wrap(err, "ошибка заполнения шаблона квитанции")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment receipt", true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, "Payment receipt", "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	_, lineHt := pdf.GetFontSize()
	html := pdf.HTMLBasicNew()
	html.Write(lineHt*1.5, body.String())
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	out := new(bytes.Buffer)
	if err = pdf.Output(out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func formatTime(value *time.Time) string {
	if value == nil || value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02 15:04 MST")
}
