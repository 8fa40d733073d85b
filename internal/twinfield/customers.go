package twinfield

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/hexa-center/book-a-room/internal/models"
)

// CustomerDimension is one DEB dimension as the accounting office knows
// it.
type CustomerDimension struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type dimensionResult struct {
	XMLName xml.Name `xml:"dimension"`
	Result  string   `xml:"result,attr"`
	Code    string   `xml:"code"`
}

type dimensionList struct {
	XMLName    xml.Name `xml:"dimensions"`
	Result     string   `xml:"result,attr"`
	Dimensions []struct {
		Code string `xml:"code"`
		Name string `xml:"name"`
	} `xml:"dimension"`
}

func (c *Client) customerDimensionXML(customer *models.Customer, code string) string {
	codeField := ""
	if code != "" {
		codeField = "<code>" + escape(code) + "</code>"
	}
	return fmt.Sprintf(`<dimension>
    <office>%s</office>
    <type>DEB</type>
    <name>%s</name>
    <shortname></shortname>%s
    <website></website>
    <financials>
        <matchtype>customersupplier</matchtype>
        <duedays>30</duedays>
        <payavailable>false</payavailable>
        <meansofpayment>none</meansofpayment>
    </financials>
    <addresses>
        <address id="1" type="invoice" default="true">
            <name>%s</name>
            <country>NL</country>
            <city>%s</city>
            <postcode>%s</postcode>
            <telephone>%s</telephone>
            <telefax></telefax>
            <email>%s</email>
            <field1>%s</field1>
            <field2>%s</field2>
        </address>
    </addresses>
</dimension>`,
		escape(c.cfg.Office), escape(customer.Name), codeField,
		escape(customer.Name), escape(customer.City), escape(customer.PostalCode),
		escape(customer.PhoneNumber), escape(customer.Email),
		escape(customer.SecondName), escape(customer.Extra))
}

func (c *Client) processDimension(ctx context.Context, request string) (string, error) {
	result, err := c.ProcessXML(ctx, request)
	if err != nil {
		return "", err
	}

	var parsed dimensionResult
	if err := xml.Unmarshal([]byte(result), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse dimension response: %w", err)
	}
	if parsed.Result == "0" {
		return "", fmt.Errorf("dimension request rejected by accounting api")
	}
	return parsed.Code, nil
}

// CreateCustomer registers the customer as a new DEB dimension and
// returns the code the office assigned.
func (c *Client) CreateCustomer(ctx context.Context, customer *models.Customer) (string, error) {
	return c.processDimension(ctx, c.customerDimensionXML(customer, ""))
}

// UpdateCustomer rewrites the DEB dimension the customer is linked to.
func (c *Client) UpdateCustomer(ctx context.Context, customer *models.Customer) (string, error) {
	if customer.TwinfieldCode == "" {
		return "", fmt.Errorf("customer has no accounting code")
	}
	return c.processDimension(ctx, c.customerDimensionXML(customer, customer.TwinfieldCode))
}

// DeleteCustomer marks a DEB dimension as deleted.
func (c *Client) DeleteCustomer(ctx context.Context, code string) error {
	request := fmt.Sprintf(`<dimension status="deleted">
    <office>%s</office>
    <type>DEB</type>
    <code>%s</code>
</dimension>`, escape(c.cfg.Office), escape(code))

	_, err := c.processDimension(ctx, request)
	return err
}

// ListCustomers reads all DEB dimensions.
func (c *Client) ListCustomers(ctx context.Context) ([]CustomerDimension, error) {
	result, err := c.ProcessXML(ctx, `<read><type>dimensions</type><dimtype>DEB</dimtype></read>`)
	if err != nil {
		return nil, err
	}

	var parsed dimensionList
	if err := xml.Unmarshal([]byte(result), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse dimensions response: %w", err)
	}

	customers := make([]CustomerDimension, 0, len(parsed.Dimensions))
	for _, d := range parsed.Dimensions {
		customers = append(customers, CustomerDimension{Code: d.Code, Name: d.Name})
	}
	return customers, nil
}
