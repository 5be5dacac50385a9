package tally

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sampleVoucher() *Voucher {
	return &Voucher{
		Date:          time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		GUID:          "b2f1c7e0-0000-4000-8000-000000000001",
		VoucherNumber: "PO-202501-0001",
		SupplierName:  "Green Valley Traders",
		ItemName:      "Onion Export Grade",
		HSNCode:       "07031010",
		Unit:          "MT",
		AlternateUnit: "kgs",
		QuantityMT:    25,
		QuantityKgs:   25000,
		Amount:        250000,
	}
}

func TestJulianDayNumber(t *testing.T) {
	// The spreadsheet epoch (1970-01-01 maps to day 25569).
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := julianDayNumber(epoch); got != 25569 {
		t.Errorf("julianDayNumber(epoch) = %d, want 25569", got)
	}
	// 2025-01-15 is 20103 days after the epoch.
	d := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := julianDayNumber(d); got != 25569+20103 {
		t.Errorf("julianDayNumber(2025-01-15) = %d, want %d", got, 25569+20103)
	}
}

func TestFormatDueDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	if got := formatDueDate(d); got != "07-Mar-25" {
		t.Errorf("formatDueDate = %q, want 07-Mar-25", got)
	}
}

func TestBuildVoucherXML(t *testing.T) {
	out, err := BuildVoucherXML(sampleVoucher())
	if err != nil {
		t.Fatalf("BuildVoucherXML: %v", err)
	}
	body := string(out)

	for _, want := range []string{
		"<DATE>20250115</DATE>",
		"<GUID>b2f1c7e0-0000-4000-8000-000000000001</GUID>",
		"<VOUCHERNUMBER>PO-202501-0001</VOUCHERNUMBER>",
		"<PARTYLEDGERNAME>Green Valley Traders</PARTYLEDGERNAME>",
		"<STOCKITEMNAME>Onion Export Grade</STOCKITEMNAME>",
		"<GSTHSNNAME>07031010</GSTHSNNAME>",
		"<ACTUALQTY>25.000 MT</ACTUALQTY>",
		"<ALTERNATEQTY>25000.000 kgs</ALTERNATEQTY>",
		"<DUEDATEOFPYMT>45672</DUEDATEOFPYMT>",
		"<DUEDATE>15-Jan-25</DUEDATE>",
		"VCHTYPE=\"Purchase\"",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("voucher XML missing %s\n%s", want, body)
		}
	}
}

func TestPostVoucherSuccessHeuristic(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     bool
	}{
		{"created marker", "<RESPONSE><CREATED>1</CREATED></RESPONSE>", true},
		{"no markers at all", "<RESPONSE>ok</RESPONSE>", true},
		{"error marker", "<RESPONSE><ERRORS>1</ERRORS><ERROR>bad ledger</ERROR></RESPONSE>", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var gotContentType, gotBody string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotContentType = r.Header.Get("Content-Type")
				b := make([]byte, r.ContentLength)
				r.Body.Read(b)
				gotBody = string(b)
				w.Write([]byte(c.response))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil)
			res, err := client.PostVoucher(context.Background(), sampleVoucher())
			if err != nil {
				t.Fatalf("PostVoucher: %v", err)
			}
			if res.Success != c.want {
				t.Errorf("success = %v, want %v (response %q)", res.Success, c.want, c.response)
			}
			if res.RawResponse != c.response {
				t.Errorf("raw response = %q, want %q", res.RawResponse, c.response)
			}
			if gotContentType != "application/xml" {
				t.Errorf("content type = %q, want application/xml", gotContentType)
			}
			if !strings.Contains(gotBody, "<VOUCHERNUMBER>PO-202501-0001</VOUCHERNUMBER>") {
				t.Errorf("posted body missing voucher number")
			}
		})
	}
}

func TestPostVoucherUnconfiguredEndpoint(t *testing.T) {
	client := NewClient("", nil)
	if _, err := client.PostVoucher(context.Background(), sampleVoucher()); err == nil {
		t.Fatal("expected error for unconfigured endpoint")
	}
}
