package controllers

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"lendtrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func exportFixture() []models.Loan {
	returned := exportDate(2024, 2, 5)
	stateEnd := "scratched"
	return []models.Loan{
		{
			ID:            "11111111-1111-1111-1111-111111111111",
			ItemName:      "Drill",
			RecipientName: "Alice",
			Description:   "cordless, with \"spare\" battery",
			Quantity:      1,
			BorrowedAt:    exportDate(2024, 1, 1),
			ReturnBy:      exportDate(2024, 2, 1),
			ReturnedAt:    &returned,
			StateStart:    "like new",
			StateEnd:      &stateEnd,
			Photos: []models.LoanPhoto{
				{URL: "/uploads/a.jpg", Type: models.PhotoTypeInitial},
				{URL: "/uploads/b.jpg", Type: models.PhotoTypeInitial},
				{URL: "/uploads/c.jpg", Type: models.PhotoTypeReturn},
			},
		},
		{
			ID:            "22222222-2222-2222-2222-222222222222",
			ItemName:      "Tent <3p>",
			RecipientName: "Bob & Co",
			Quantity:      2,
			BorrowedAt:    exportDate(2024, 3, 1),
			ReturnBy:      exportDate(2024, 3, 10),
			StateStart:    "good",
		},
	}
}

func TestGenerateCSV(t *testing.T) {
	now := exportDate(2024, 3, 31)
	out := GenerateCSV(exportFixture(), false, now)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"ID", "Item Name", "Recipient", "Description", "Quantity", "Status",
		"Borrowed Date", "Return By", "Returned Date", "Initial Condition", "Return Condition",
	}, rows[0])

	assert.Equal(t, []string{
		"11111111-1111-1111-1111-111111111111", "Drill", "Alice",
		"cordless, with \"spare\" battery", "1", "returned",
		"2024-01-01", "2024-02-01", "2024-02-05", "like new", "scratched",
	}, rows[1])

	// 未归还：returned date 和 return condition 为空，状态现算为 overdue
	assert.Equal(t, "overdue", rows[2][5])
	assert.Equal(t, "", rows[2][8])
	assert.Equal(t, "", rows[2][10])
}

func TestGenerateCSVWithPhotos(t *testing.T) {
	now := exportDate(2024, 3, 31)
	out := GenerateCSV(exportFixture(), true, now)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows[0], 13)
	assert.Equal(t, "Initial Photos", rows[0][11])
	assert.Equal(t, "Return Photos", rows[0][12])

	assert.Equal(t, "/uploads/a.jpg; /uploads/b.jpg", rows[1][11])
	assert.Equal(t, "/uploads/c.jpg", rows[1][12])
	assert.Equal(t, "", rows[2][11])
}

func TestGenerateHTMLEscapesUserInput(t *testing.T) {
	now := exportDate(2024, 3, 31)
	out := GenerateHTML(exportFixture(), "user@example.com", now)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "user@example.com")
	assert.Contains(t, out, "(2 loans)")

	// ItemName/RecipientName 里的 HTML 必须转义
	assert.Contains(t, out, "Tent &lt;3p&gt;")
	assert.Contains(t, out, "Bob &amp; Co")
	assert.NotContains(t, out, "<3p>")
}

func TestGenerateCSVEmpty(t *testing.T) {
	out := GenerateCSV(nil, false, exportDate(2024, 3, 31))

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // 只有表头
}
