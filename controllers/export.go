// controllers/export.go
//
// 导出格式化：纯函数，controller 只管取数和响应头。
package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"strconv"
	"time"

	"lendtrack/loanstat"
	"lendtrack/models"
)

func fmtDate(t time.Time) string { return t.Format("2006-01-02") }

func fmtDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmtDate(*t)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinPhotoURLs(photos []models.LoanPhoto, typ string) string {
	out := ""
	for _, p := range photos {
		if p.Type != typ {
			continue
		}
		if out != "" {
			out += "; "
		}
		out += p.URL
	}
	return out
}

// GenerateCSV 列顺序和 web 端导出保持一致。
func GenerateCSV(loans []models.Loan, includePhotos bool, now time.Time) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := []string{
		"ID", "Item Name", "Recipient", "Description", "Quantity", "Status",
		"Borrowed Date", "Return By", "Returned Date", "Initial Condition", "Return Condition",
	}
	if includePhotos {
		headers = append(headers, "Initial Photos", "Return Photos")
	}
	_ = w.Write(headers)

	for i := range loans {
		l := &loans[i]
		row := []string{
			l.ID,
			l.ItemName,
			l.RecipientName,
			l.Description,
			strconv.Itoa(l.Quantity),
			string(loanstat.Derive(l, now)),
			fmtDate(l.BorrowedAt),
			fmtDate(l.ReturnBy),
			fmtDatePtr(l.ReturnedAt),
			l.StateStart,
			strOrEmpty(l.StateEnd),
		}
		if includePhotos {
			row = append(row,
				joinPhotoURLs(l.Photos, models.PhotoTypeInitial),
				joinPhotoURLs(l.Photos, models.PhotoTypeReturn),
			)
		}
		_ = w.Write(row)
	}
	w.Flush()
	return buf.String()
}

// GenerateHTML 可打印的导出页（浏览器里存成 PDF 用）。
func GenerateHTML(loans []models.Loan, userEmail string, now time.Time) string {
	var rows bytes.Buffer
	for i := range loans {
		l := &loans[i]
		returned := "-"
		if l.ReturnedAt != nil {
			returned = fmtDate(*l.ReturnedAt)
		}
		fmt.Fprintf(&rows, `      <tr>
        <td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td>
      </tr>
`,
			html.EscapeString(l.ItemName),
			html.EscapeString(l.RecipientName),
			l.Quantity,
			loanstat.Derive(l, now),
			fmtDate(l.BorrowedAt),
			fmtDate(l.ReturnBy),
			returned,
		)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <title>Loan Export - %s</title>
    <style>
      body { font-family: Arial, sans-serif; margin: 20px; }
      h1 { color: #333; }
      table { width: 100%%; border-collapse: collapse; margin-top: 20px; }
      th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
      th { background-color: #f5f5f5; }
    </style>
  </head>
  <body>
    <h1>Loan Export</h1>
    <p>Exported by %s on %s (%d loans)</p>
    <table>
      <tr>
        <th>Item</th><th>Recipient</th><th>Qty</th><th>Status</th>
        <th>Borrowed</th><th>Return By</th><th>Returned</th>
      </tr>
%s    </table>
  </body>
</html>
`,
		fmtDate(now),
		html.EscapeString(userEmail),
		fmtDate(now),
		len(loans),
		rows.String(),
	)
}
