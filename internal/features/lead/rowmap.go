package lead

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/features/store"
)

// Upstream rows arrive with wildly inconsistent column names, both from
// spreadsheets and from the report APIs. Each logical field resolves through
// one ordered alias list; the first alias present in the row wins.
var fieldAliases = map[string][]string{
	"name":           {"name", "customer name", "customername", "customer", "client name", "party name"},
	"phone":          {"phone", "phone number", "mobile", "mobile number", "mobileno", "contact no", "contact number", "phoneno"},
	"store":          {"store", "store name", "storename", "branch", "location", "showroom"},
	"bookingNo":      {"booking no", "booking number", "bookingno", "booking id", "order no", "orderno", "bill no"},
	"securityAmount": {"security amount", "security amt", "securityamount", "security", "advance amount", "advance"},
	"enquiryDate":    {"enquiry date", "enquirydate", "visit date", "date"},
	"functionDate":   {"function date", "functiondate", "event date", "marriage date"},
	"returnDate":     {"return date", "returndate", "delivery return date"},
	"reason":         {"reason", "loss reason", "remarks reason"},
	"closingStatus":  {"closing status", "closingstatus", "status"},
	"source":         {"source", "lead source", "leadsource"},
}

// dateLayouts are tried in order when a row carries a date as text.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"01/02/2006", // US-format exports from the report API
}

// MapRow converts one raw upstream row into a resolver candidate for the
// given channel, canonicalizing the store string on the way.
func MapRow(row map[string]interface{}, channel common_models.SyncType) Candidate {
	normalized := normalizeKeys(row)

	return Candidate{
		Channel:        channel,
		LeadType:       channel.LeadType(),
		Name:           strings.TrimSpace(stringField(normalized, "name")),
		Phone:          NormalizePhone(stringField(normalized, "phone")),
		Store:          store.Normalize(stringField(normalized, "store")),
		BookingNo:      strings.TrimSpace(stringField(normalized, "bookingNo")),
		SecurityAmount: floatField(normalized, "securityAmount"),
		EnquiryDate:    dateField(normalized, "enquiryDate"),
		FunctionDate:   dateField(normalized, "functionDate"),
		ReturnDate:     dateField(normalized, "returnDate"),
		Reason:         strings.TrimSpace(stringField(normalized, "reason")),
		ClosingStatus:  strings.TrimSpace(stringField(normalized, "closingStatus")),
		Source:         strings.TrimSpace(stringField(normalized, "source")),
	}
}

// normalizeKeys lower-cases and collapses whitespace in the row's column
// names so alias lookup is insensitive to header formatting.
func normalizeKeys(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		key := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(k))), " ")
		if _, exists := out[key]; !exists {
			out[key] = v
		}
	}
	return out
}

func stringField(row map[string]interface{}, field string) string {
	for _, alias := range fieldAliases[field] {
		if v, ok := row[alias]; ok && v != nil {
			switch t := v.(type) {
			case string:
				if strings.TrimSpace(t) != "" {
					return t
				}
			case float64:
				// spreadsheet cells often surface numbers as float64
				return strconv.FormatFloat(t, 'f', -1, 64)
			default:
				return fmt.Sprintf("%v", t)
			}
		}
	}
	return ""
}

func floatField(row map[string]interface{}, field string) float64 {
	for _, alias := range fieldAliases[field] {
		v, ok := row[alias]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t
		case int:
			return float64(t)
		case string:
			var f float64
			if _, err := fmt.Sscanf(strings.TrimSpace(t), "%f", &f); err == nil {
				return f
			}
		}
	}
	return 0
}

func dateField(row map[string]interface{}, field string) *time.Time {
	for _, alias := range fieldAliases[field] {
		v, ok := row[alias]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case time.Time:
			return &t
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				continue
			}
			for _, layout := range dateLayouts {
				if parsed, err := time.Parse(layout, s); err == nil {
					return &parsed
				}
			}
		}
	}
	return nil
}

// NormalizePhone strips every non-digit and drops the common "+91"/leading
// zero prefixes so a valid number comes out as exactly 10 digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "0") {
		digits = digits[1:]
	}
	return digits
}
