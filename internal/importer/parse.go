package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/budgetnest/backend/internal/importer/helpers"
	"github.com/budgetnest/backend/internal/models"
	"github.com/shopspring/decimal"
)

// The columns of the CSV file, in order.
const (
	Date = iota
	Payee
	Envelope
	Note
	Outflow
	Inflow
)

// Parse reads a transaction CSV export for the budget that is passed.
//
// The expected format is "Date,Payee,Envelope,Note,Outflow,Inflow" with a
// header line. Exactly one of Outflow and Inflow must be set per line,
// outflows become expenses, inflows become income.
func Parse(f io.Reader, budget models.Budget) ([]TransactionPreview, error) {
	reader := csv.NewReader(f)

	// We can reuse the array in the background to improve performance
	reader.ReuseRecord = true

	var transactions []TransactionPreview

	// Skip the header line
	_, err := reader.Read()
	if err == io.EOF {
		return []TransactionPreview{}, nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not read line in CSV: %w", err))
		}

		date, err := time.Parse("2006-01-02", record[Date])
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not parse date: %w", err))
		}

		t := TransactionPreview{
			Transaction: models.Transaction{
				BudgetID:   budget.ID,
				Date:       date,
				Payee:      record[Payee],
				Note:       record[Note],
				ImportHash: helpers.Sha256String(strings.Join(record, ",")),
			},
			EnvelopeName: record[Envelope],
		}

		if record[Outflow] != "" && record[Inflow] != "" {
			return csvReadError(reader, errors.New("both outflow and inflow are set for the transaction"))
		} else if record[Outflow] == "" && record[Inflow] == "" {
			return csvReadError(reader, errors.New("no amount is set for the transaction"))
		} else if record[Outflow] != "" {
			amount, err := decimal.NewFromString(record[Outflow])
			if err != nil {
				return csvReadError(reader, errors.New("outflow could not be parsed to a decimal"))
			}

			t.Transaction.Type = models.TransactionTypeExpense
			t.Transaction.Amount = amount
		} else {
			amount, err := decimal.NewFromString(record[Inflow])
			if err != nil {
				return csvReadError(reader, errors.New("inflow could not be parsed to a decimal"))
			}

			t.Transaction.Type = models.TransactionTypeIncome
			t.Transaction.Amount = amount
		}

		if t.Transaction.Amount.IsZero() {
			return csvReadError(reader, errors.New("the amount for a transaction must not be 0"))
		}

		transactions = append(transactions, t)
	}

	return transactions, nil
}

// csvReadError returns an error including the line of the input
// the error occurred in.
func csvReadError(r *csv.Reader, err error) ([]TransactionPreview, error) {
	// always use the first field, we are only interested in the line
	line, _ := r.FieldPos(1)

	return []TransactionPreview{}, fmt.Errorf("error in line %d of the CSV: %w", line, err)
}
