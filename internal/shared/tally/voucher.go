package tally

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Voucher is the purchase voucher document posted to the accounting
// endpoint. Field layout follows Tally's import envelope.
type Voucher struct {
	Date          time.Time
	GUID          string
	VoucherNumber string
	SupplierName  string
	ItemName      string
	HSNCode       string
	Unit          string  // primary unit (MT)
	AlternateUnit string  // alternate unit (kgs)
	QuantityMT    float64 // primary unit quantity
	QuantityKgs   float64 // alternate unit quantity
	Amount        float64
	Narration     string
}

// envelope mirrors the fixed Tally import XML structure.
type envelope struct {
	XMLName xml.Name `xml:"ENVELOPE"`
	Header  header   `xml:"HEADER"`
	Body    body     `xml:"BODY"`
}

type header struct {
	TallyRequest string `xml:"TALLYREQUEST"`
}

type body struct {
	ImportData importData `xml:"IMPORTDATA"`
}

type importData struct {
	RequestDesc requestDesc `xml:"REQUESTDESC"`
	RequestData requestData `xml:"REQUESTDATA"`
}

type requestDesc struct {
	ReportName string `xml:"REPORTNAME"`
}

type requestData struct {
	TallyMessage tallyMessage `xml:"TALLYMESSAGE"`
}

type tallyMessage struct {
	Voucher voucherXML `xml:"VOUCHER"`
}

type voucherXML struct {
	VchType       string        `xml:"VCHTYPE,attr"`
	Action        string        `xml:"ACTION,attr"`
	Date          string        `xml:"DATE"`
	GUID          string        `xml:"GUID"`
	VoucherNumber string        `xml:"VOUCHERNUMBER"`
	PartyLedger   string        `xml:"PARTYLEDGERNAME"`
	Narration     string        `xml:"NARRATION,omitempty"`
	Inventory     inventoryItem `xml:"ALLINVENTORYENTRIES.LIST"`
}

type inventoryItem struct {
	StockItemName  string `xml:"STOCKITEMNAME"`
	HSNCode        string `xml:"GSTHSNNAME,omitempty"`
	ActualQty      string `xml:"ACTUALQTY"`
	BilledQty      string `xml:"BILLEDQTY"`
	AlternateQty   string `xml:"ALTERNATEQTY,omitempty"`
	Amount         string `xml:"AMOUNT"`
	DueDateJulian  int64  `xml:"DUEDATEOFPYMT"`
	DueDateDisplay string `xml:"DUEDATE,omitempty"`
}

// julianDayNumber converts a time to the spreadsheet-epoch day count the
// accounting system expects: floor(epochMillis/86400000) + 25569.
func julianDayNumber(t time.Time) int64 {
	return t.UnixMilli()/86400000 + 25569
}

// formatDueDate renders the human-readable DD-Mon-YY companion field.
func formatDueDate(t time.Time) string {
	return t.Format("02-Jan-06")
}

// BuildVoucherXML renders the full import envelope for a voucher.
func BuildVoucherXML(v *Voucher) ([]byte, error) {
	env := envelope{
		Header: header{TallyRequest: "Import Data"},
		Body: body{
			ImportData: importData{
				RequestDesc: requestDesc{ReportName: "Vouchers"},
				RequestData: requestData{
					TallyMessage: tallyMessage{
						Voucher: voucherXML{
							VchType:       "Purchase",
							Action:        "Create",
							Date:          v.Date.Format("20060102"),
							GUID:          v.GUID,
							VoucherNumber: v.VoucherNumber,
							PartyLedger:   v.SupplierName,
							Narration:     v.Narration,
							Inventory: inventoryItem{
								StockItemName:  v.ItemName,
								HSNCode:        v.HSNCode,
								ActualQty:      fmt.Sprintf("%.3f %s", v.QuantityMT, v.Unit),
								BilledQty:      fmt.Sprintf("%.3f %s", v.QuantityMT, v.Unit),
								AlternateQty:   fmt.Sprintf("%.3f %s", v.QuantityKgs, v.AlternateUnit),
								Amount:         fmt.Sprintf("%.2f", v.Amount),
								DueDateJulian:  julianDayNumber(v.Date),
								DueDateDisplay: formatDueDate(v.Date),
							},
						},
					},
				},
			},
		},
	}

	out, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal voucher: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
