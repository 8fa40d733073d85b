package twinfield

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/hexa-center/book-a-room/internal/models"
)

// Ledger accounts and vat codes of the sales administration.
const (
	ledgerDebtors  = "130000"
	ledgerStays    = "804000"
	ledgerParking  = "803000"
	ledgerCleaning = "803010"
	ledgerSpread   = "179100"

	vatCodeLow  = "VL"
	vatCodeHigh = "VH"
)

type transactionResult struct {
	XMLName xml.Name `xml:"transaction"`
	Result  string   `xml:"result,attr"`
	Header  struct {
		Number string `xml:"number"`
	} `xml:"header"`
}

type spreadResult struct {
	XMLName xml.Name `xml:"spread"`
	Result  string   `xml:"result,attr"`
}

func lineLedger(name string) string {
	switch name {
	case models.LineFinalCleaning:
		return ledgerCleaning
	case models.LineParkingFee:
		return ledgerParking
	default:
		return ledgerStays
	}
}

func lineVATCode(vatPercentage int) string {
	if vatPercentage == 9 {
		return vatCodeLow
	}
	return vatCodeHigh
}

// CreateTransaction books an invoice as a VRK sales transaction and
// spreads the revenue across the invoiced period. Returns the
// transaction number the office assigned.
func (c *Client) CreateTransaction(ctx context.Context, inv *models.Invoice, customerCode string) (string, error) {
	var lines strings.Builder
	fmt.Fprintf(&lines, `
        <line type="total" id="1">
            <dim1>%s</dim1>
            <dim2>%s</dim2>
            <value>%s</value>
            <debitcredit>debit</debitcredit>
            <description />
        </line>`, ledgerDebtors, escape(customerCode), inv.Total().StringFixed(2))

	for i, line := range inv.Lines {
		fmt.Fprintf(&lines, `
        <line type="detail" id="%d">
            <dim1>%s</dim1>
            <value>%s</value>
            <debitcredit>credit</debitcredit>
            <description>%s</description>
            <vatcode>%s</vatcode>
            <vatvalue>%s</vatvalue>
        </line>`, i+2, lineLedger(line.Name), line.TotalWithoutVAT.StringFixed(2),
			escape(line.Name), lineVATCode(line.VATPercentage), line.VAT.StringFixed(2))
	}

	request := fmt.Sprintf(`<transaction destiny="temporary" raisewarning="false">
    <header>
        <code>VRK</code>
        <currency>EUR</currency>
        <date>%s</date>
        <period>%s</period>
        <invoicenumber>%s</invoicenumber>
        <office>%s</office>
        <duedate>%s</duedate>
    </header>
    <lines>%s
    </lines>
</transaction>`,
		inv.Date.Format("20060102"), inv.Date.Format("2006/01"),
		escape(inv.Number), escape(c.cfg.Office),
		inv.Date.AddDate(0, 1, 0).Format("20060102"), lines.String())

	result, err := c.ProcessXML(ctx, request)
	if err != nil {
		return "", err
	}

	var parsed transactionResult
	if err := xml.Unmarshal([]byte(result), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse transaction response: %w", err)
	}
	if parsed.Result == "0" || parsed.Header.Number == "" {
		return "", fmt.Errorf("transaction rejected by accounting api")
	}

	if err := c.spreadTransaction(ctx, parsed.Header.Number, inv); err != nil {
		return "", err
	}
	return parsed.Header.Number, nil
}

// spreadTransaction posts the provisional spread of the booked revenue
// over the invoiced period.
func (c *Client) spreadTransaction(ctx context.Context, number string, inv *models.Invoice) error {
	request := fmt.Sprintf(`<spread action="postprovisional">
    <original>
        <office>%s</office>
        <code>VRK</code>
        <number>%s</number>
    </original>
    <settings>
        <dim1>%s</dim1>
        <startperiod>%s</startperiod>
        <endperiod>%s</endperiod>
    </settings>
</spread>`,
		escape(c.cfg.Office), escape(number), ledgerSpread,
		inv.From.Format("2006/01"), inv.To.Format("2006/01"))

	result, err := c.ProcessXML(ctx, request)
	if err != nil {
		return err
	}

	var parsed spreadResult
	if err := xml.Unmarshal([]byte(result), &parsed); err != nil {
		return fmt.Errorf("failed to parse spread response: %w", err)
	}
	if parsed.Result == "0" {
		return fmt.Errorf("spread rejected by accounting api")
	}
	return nil
}
