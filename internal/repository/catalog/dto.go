package catalog

import (
	"encoding/json"

	"github.com/quipudata/seriedex/internal/domain/catalog"
)

// recordDTO is the on-disk snapshot shape of one record. Only declared
// metadata is persisted; canonical tokens and derived attributes are
// recomputed at load time so lexicon updates take effect on reload.
type recordDTO struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Aliases   []string `json:"aliases,omitempty"`
	Category  string   `json:"category,omitempty"`
	Frequency string   `json:"frequency,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
}

func toDTO(r *catalog.Record) recordDTO {
	return recordDTO{
		Code:      r.Code,
		Name:      r.Name,
		Aliases:   r.Aliases,
		Category:  r.Category,
		Frequency: string(r.Frequency),
		Unit:      r.Unit,
		Keywords:  r.Keywords,
	}
}

func fromDTO(d recordDTO) catalog.Record {
	freq := catalog.Frequency(d.Frequency)
	switch freq {
	case catalog.FrequencyDaily, catalog.FrequencyMonthly,
		catalog.FrequencyQuarterly, catalog.FrequencyAnnual:
	default:
		freq = catalog.FrequencyFromCode(d.Code)
	}
	return catalog.Record{
		Code:      d.Code,
		Name:      d.Name,
		Aliases:   d.Aliases,
		Category:  d.Category,
		Frequency: freq,
		Unit:      d.Unit,
		Keywords:  d.Keywords,
	}
}

func encodeRecords(records []catalog.Record) ([]byte, error) {
	dtos := make([]recordDTO, len(records))
	for i := range records {
		dtos[i] = toDTO(&records[i])
	}
	return json.Marshal(dtos)
}

func decodeRecords(data []byte) ([]catalog.Record, error) {
	var dtos []recordDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, err
	}
	records := make([]catalog.Record, len(dtos))
	for i, d := range dtos {
		records[i] = fromDTO(d)
	}
	return records, nil
}
