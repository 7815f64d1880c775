package excel

import (
	"inflationdash/domain/dataset"
)

// Default file names of the four sources inside a data directory
var DefaultFiles = map[dataset.ID]string{
	dataset.Primary:    "merged_data.csv",
	dataset.DecadalAvg: "merged_data_avg.csv",
	dataset.RealIncome: "merged_data_real_incomes.csv",
	dataset.NotesID:    "country_notes.csv",
}

// DefaultSheets names the workbook sheet holding each source
var DefaultSheets = map[dataset.ID]string{
	dataset.Primary:    "series",
	dataset.DecadalAvg: "avg",
	dataset.RealIncome: "real_income",
	dataset.NotesID:    "notes",
}

func copyNames(src map[dataset.ID]string, overrides map[dataset.ID]string) map[dataset.ID]string {
	out := make(map[dataset.ID]string, len(src))
	for id, name := range src {
		out[id] = name
	}
	for id, name := range overrides {
		if name != "" {
			out[id] = name
		}
	}
	return out
}
