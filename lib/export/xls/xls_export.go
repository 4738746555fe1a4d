package xlsexport

import (
	"bytes"
	paymentapimodels "jobmarket-backend/models/api/payment"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	// ExportDistributions выписка по выплатам получателя
	ExportDistributions(list []paymentapimodels.DistributionView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

func NewProvider() Provider {
	return impl{}
}

type impl struct{}

const distributionSheet = "Выплаты"

var distributionHeaders = []string{"Вакансия", "Роль", "Доля, %", "Сумма", "Валюта", "Статус", "Дата заявки", "Дата оплаты", "Хэш транзакции"}

func (i impl) ExportDistributions(list []paymentapimodels.DistributionView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, distributionHeaders, 22)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeDistributionData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
		if err = writeTotals(f, sheet, list, row); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования итогов в xlsx")
		}
	}
	if err = f.SetSheetName(sheet, distributionSheet); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа")
	}
	return f.WriteToBuffer()
}

func writeDistributionData(f *excelize.File, sheet string, list []paymentapimodels.DistributionView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(distributionHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.JobID,
			string(item.Role),
			item.Percentage.StringFixed(2),
			centsToUnits(item.Amount),
			item.Currency,
			string(item.Status),
			formatDate(item.ClaimedAt),
			formatDate(item.PaidAt),
			item.TransactionHash,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return row, err
		}
	}
	return row, nil
}

// итог по оплаченным выплатам в разрезе валют
func writeTotals(f *excelize.File, sheet string, list []paymentapimodels.DistributionView, row int) error {
	totals := map[string]int64{}
	currencies := []string{}
	for _, item := range list {
		if item.PaidAt == nil {
			continue
		}
		if _, ok := totals[item.Currency]; !ok {
			currencies = append(currencies, item.Currency)
		}
		totals[item.Currency] += item.Amount
	}
	for _, currency := range currencies {
		row++
		if err := writeRow(f, sheet, row, []interface{}{"Оплачено", nil, nil, centsToUnits(totals[currency]), currency}); err != nil {
			return err
		}
	}
	return nil
}

func centsToUnits(amount int64) float64 {
	value, _ := decimal.New(amount, -2).Float64()
	return value
}

func formatDate(value *time.Time) interface{} {
	if value == nil || value.IsZero() {
		return nil
	}
	return value.Format("02.01.2006")
}
