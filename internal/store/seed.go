package store

import "formbuddy/internal/model"

// DefaultSeed is written on first run so a new user sees the common BIR filings.
func DefaultSeed() []model.Fields {
	return []model.Fields{
		{
			FormName:    "Annual Income Tax Return",
			FormNumber:  "1701",
			Description: "Individual income tax return",
			Deadline:    model.MustDate("2025-04-15"),
			Frequency:   model.FrequencyAnnually,
			Status:      model.StatusNotStarted,
		},
		{
			FormName:    "Quarterly Income Tax Return",
			FormNumber:  "2551Q",
			Description: "Corporate quarterly income tax",
			Deadline:    model.MustDate("2025-01-31"),
			Frequency:   model.FrequencyQuarterly,
			Status:      model.StatusNotStarted,
		},
		{
			FormName:    "Monthly Withholding Tax Return",
			FormNumber:  "1601-C",
			Description: "Creditable withholding tax",
			Deadline:    model.MustDate("2025-01-20"),
			Frequency:   model.FrequencyMonthly,
			Status:      model.StatusNotStarted,
		},
	}
}
