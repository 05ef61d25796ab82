package report

import (
	"sort"
	"strings"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Raporlama tamamen okuma tarafıdır: her çağrıda defter + katalogdan yeniden
// hesaplanır, ara tablo/materialized view tutulmaz.

// StageWeights: Dört aşamanın kümülatif ağırlıkları (kg).
type StageWeights struct {
	FitUpKg    float64 `json:"fitup_kg"`
	WeldingKg  float64 `json:"welding_kg"`
	BlastingKg float64 `json:"blasting_kg"`
	SendSiteKg float64 `json:"sendsite_kg"`
}

func (w *StageWeights) add(stage models.Stage, kg float64) {
	switch stage {
	case models.StageFitUp:
		w.FitUpKg += kg
	case models.StageWelding:
		w.WeldingKg += kg
	case models.StageBlasting:
		w.BlastingKg += kg
	case models.StageSendSite:
		w.SendSiteKg += kg
	}
}

// StageSummary: Proje genelinde tek aşamanın durumu.
type StageSummary struct {
	Stage   models.Stage `json:"stage"`
	DoneKg  float64      `json:"done_kg"`
	Percent float64      `json:"percent"`
}

// Summary: Proje özeti.
type Summary struct {
	ProjectTotalKg float64        `json:"project_total_kg"`
	Stages         []StageSummary `json:"stages"`
}

// round2: Ağırlıklar 2 ondalıkla raporlanır.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// percent: done/total*100, [0,100] aralığına sıkıştırılmış, 1 ondalık.
// Payda 0 ise 0 döner.
func percent(done, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := decimal.NewFromFloat(done).
		Div(decimal.NewFromFloat(total)).
		Mul(decimal.NewFromInt(100))
	if p.GreaterThan(decimal.NewFromInt(100)) {
		p = decimal.NewFromInt(100)
	}
	f, _ := p.Round(1).Float64()
	return f
}

type stageSum struct {
	Stage models.Stage
	Total float64
}

// SummaryTotals: Proje toplam ağırlığı (montaj toplamlarının toplamı) ve
// aşama başına kümülatif ağırlık + yüzde.
func SummaryTotals() (*Summary, error) {
	var projectTotal float64
	if err := database.DB.Model(&models.Assembly{}).
		Select("COALESCE(SUM(total_weight_kg), 0)").
		Scan(&projectTotal).Error; err != nil {
		return nil, err
	}

	var sums []stageSum
	if err := database.DB.Model(&models.ProgressEntry{}).
		Select("stage, COALESCE(SUM(weight_kg), 0) as total").
		Group("stage").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	done := make(map[models.Stage]float64, len(sums))
	for _, s := range sums {
		done[s.Stage] = s.Total
	}

	summary := &Summary{ProjectTotalKg: round2(projectTotal)}
	for _, stage := range models.Stages {
		summary.Stages = append(summary.Stages, StageSummary{
			Stage:   stage,
			DoneKg:  round2(done[stage]),
			Percent: percent(done[stage], projectTotal),
		})
	}
	return summary, nil
}

// CumulativeRow: Montaj (veya montaj+alt montaj) bazında kümülatif durum.
type CumulativeRow struct {
	AssemblyMark    string  `json:"assembly_mark"`
	SubAssemblyMark string  `json:"sub_assembly_mark"`
	TotalWeightKg   float64 `json:"total_weight_kg"`
	StageWeights
}

type keyedSum struct {
	AssemblyMark    string
	SubAssemblyMark string
	Stage           models.Stage
	Total           float64
}

// CumulativeByAssembly: Montaj bazında aşama toplamları.
func CumulativeByAssembly() ([]CumulativeRow, error) {
	assemblies, err := allAssemblies()
	if err != nil {
		return nil, err
	}

	var sums []keyedSum
	if err := database.DB.Model(&models.ProgressEntry{}).
		Select("assembly_mark, stage, COALESCE(SUM(weight_kg), 0) as total").
		Group("assembly_mark, stage").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	byAssembly := make(map[string]*StageWeights)
	for _, s := range sums {
		w, ok := byAssembly[s.AssemblyMark]
		if !ok {
			w = &StageWeights{}
			byAssembly[s.AssemblyMark] = w
		}
		w.add(s.Stage, s.Total)
	}

	rows := make([]CumulativeRow, 0, len(assemblies))
	for _, asm := range assemblies {
		row := CumulativeRow{
			AssemblyMark:  asm.AssemblyMark,
			TotalWeightKg: asm.TotalWeightKg,
		}
		if w, ok := byAssembly[asm.AssemblyMark]; ok {
			row.StageWeights = *w
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type subWeight struct {
	AssemblyMark    string
	SubAssemblyMark string
	SubWeight       float64
}

// CumulativeBySubAssembly: (montaj, alt montaj) bazında kümülatif durum.
// Alt montaj ağırlığı o alt montajın parçalarının toplamıdır. Alt montajı
// olmayan montajlar, montaj toplamıyla (montaj, "") satırına düşer; bu
// birleşim her montajı tam bir kez kapsar — çift sayım da atlama da olmaz.
func CumulativeBySubAssembly() ([]CumulativeRow, error) {
	// Alt montaj ağırlıkları: parçalardan
	var subs []subWeight
	if err := database.DB.Model(&models.Part{}).
		Select("assembly_mark, sub_assembly_mark, COALESCE(SUM(total_weight_kg), 0) as sub_weight").
		Where("sub_assembly_mark != ''").
		Group("assembly_mark, sub_assembly_mark").
		Scan(&subs).Error; err != nil {
		return nil, err
	}

	hasSubs := make(map[string]bool)
	for _, s := range subs {
		hasSubs[s.AssemblyMark] = true
	}

	// İlerleme toplamları: (montaj, alt montaj, aşama)
	var sums []keyedSum
	if err := database.DB.Model(&models.ProgressEntry{}).
		Select("assembly_mark, sub_assembly_mark, stage, COALESCE(SUM(weight_kg), 0) as total").
		Group("assembly_mark, sub_assembly_mark, stage").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	type subKey struct{ asm, sub string }
	byKey := make(map[subKey]*StageWeights)
	byAssembly := make(map[string]*StageWeights)
	for _, s := range sums {
		k := subKey{s.AssemblyMark, s.SubAssemblyMark}
		if w, ok := byKey[k]; ok {
			w.add(s.Stage, s.Total)
		} else {
			w := &StageWeights{}
			w.add(s.Stage, s.Total)
			byKey[k] = w
		}
		if w, ok := byAssembly[s.AssemblyMark]; ok {
			w.add(s.Stage, s.Total)
		} else {
			w := &StageWeights{}
			w.add(s.Stage, s.Total)
			byAssembly[s.AssemblyMark] = w
		}
	}

	var rows []CumulativeRow

	// 1. dal: alt montajı olan montajların alt montaj satırları
	for _, s := range subs {
		row := CumulativeRow{
			AssemblyMark:    s.AssemblyMark,
			SubAssemblyMark: s.SubAssemblyMark,
			TotalWeightKg:   s.SubWeight,
		}
		if w, ok := byKey[subKey{s.AssemblyMark, s.SubAssemblyMark}]; ok {
			row.StageWeights = *w
		}
		rows = append(rows, row)
	}

	// 2. dal: alt montajı olmayan montajlar montaj toplamıyla tek satır.
	// İlerleme alt montaj ayrımı yapılmadan montajın tamamından toplanır.
	assemblies, err := allAssemblies()
	if err != nil {
		return nil, err
	}
	for _, asm := range assemblies {
		if hasSubs[asm.AssemblyMark] {
			continue
		}
		row := CumulativeRow{
			AssemblyMark:  asm.AssemblyMark,
			TotalWeightKg: asm.TotalWeightKg,
		}
		if w, ok := byAssembly[asm.AssemblyMark]; ok {
			row.StageWeights = *w
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AssemblyMark != rows[j].AssemblyMark {
			return rows[i].AssemblyMark < rows[j].AssemblyMark
		}
		return rows[i].SubAssemblyMark < rows[j].SubAssemblyMark
	})

	return rows, nil
}

// MasterStageInfo: Master export'ta tek aşamanın parça satırındaki görünümü.
type MasterStageInfo struct {
	Reached  bool    `json:"reached"`
	WeightKg float64 `json:"weight_kg"` // ulaşıldıysa parça ağırlığı, değilse 0
	Dates    string  `json:"dates"`     // o aşamadaki tüm girişlerin tarihleri, virgülle
}

// MasterRow: Parça satırı + aşama bilgileri.
type MasterRow struct {
	Part     models.Part     `json:"part"`
	FitUp    MasterStageInfo `json:"fitup"`
	Welding  MasterStageInfo `json:"welding"`
	Blasting MasterStageInfo `json:"blasting"`
	SendSite MasterStageInfo `json:"sendsite"`
}

// MasterExport: Parça listesi, (montaj, alt montaj) anahtarının ilerlemesiyle
// işaretlenmiş halde. "Ulaşıldı" bayrağı o anahtar+aşama için en az bir giriş
// olmasıdır; kaç giriş olduğu veya ağırlıkları fark etmez.
func MasterExport() ([]MasterRow, error) {
	var parts []models.Part
	if err := database.DB.
		Order("assembly_mark, sub_assembly_mark, part_mark").
		Find(&parts).Error; err != nil {
		return nil, err
	}

	var entries []models.ProgressEntry
	if err := database.DB.
		Order("entry_date, id").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	type subKey struct{ asm, sub string }
	type stageAgg struct {
		reached map[models.Stage]bool
		dates   map[models.Stage][]string
	}
	agg := make(map[subKey]*stageAgg)
	for _, e := range entries {
		k := subKey{e.AssemblyMark, e.SubAssemblyMark}
		a, ok := agg[k]
		if !ok {
			a = &stageAgg{
				reached: make(map[models.Stage]bool),
				dates:   make(map[models.Stage][]string),
			}
			agg[k] = a
		}
		a.reached[e.Stage] = true
		a.dates[e.Stage] = append(a.dates[e.Stage], e.EntryDate)
	}

	info := func(a *stageAgg, stage models.Stage, partWeight float64) MasterStageInfo {
		if a == nil || !a.reached[stage] {
			return MasterStageInfo{}
		}
		return MasterStageInfo{
			Reached:  true,
			WeightKg: partWeight,
			Dates:    strings.Join(a.dates[stage], ","),
		}
	}

	rows := make([]MasterRow, 0, len(parts))
	for _, p := range parts {
		a := agg[subKey{p.AssemblyMark, p.SubAssemblyMark}]
		rows = append(rows, MasterRow{
			Part:     p,
			FitUp:    info(a, models.StageFitUp, p.TotalWeightKg),
			Welding:  info(a, models.StageWelding, p.TotalWeightKg),
			Blasting: info(a, models.StageBlasting, p.TotalWeightKg),
			SendSite: info(a, models.StageSendSite, p.TotalWeightKg),
		})
	}
	return rows, nil
}

// EntryWithTotal: İlerleme kaydı + montajın toplam ağırlığı.
type EntryWithTotal struct {
	models.ProgressEntry
	AsmTotal float64 `json:"asm_total"`
}

// ByRange: Tarih aralığındaki ilerleme kayıtları, montaj toplamı eklenmiş.
func ByRange(start, end string) ([]EntryWithTotal, error) {
	var rows []EntryWithTotal
	err := database.DB.Model(&models.ProgressEntry{}).
		Select("progress_entries.*, assemblies.total_weight_kg as asm_total").
		Joins("JOIN assemblies ON progress_entries.assembly_mark = assemblies.assembly_mark").
		Where("progress_entries.entry_date BETWEEN ? AND ?", start, end).
		Order("progress_entries.entry_date, progress_entries.stage, progress_entries.assembly_mark").
		Scan(&rows).Error
	return rows, err
}

// ByDate: Tek günün ilerleme kayıtları.
func ByDate(date string) ([]EntryWithTotal, error) {
	var rows []EntryWithTotal
	err := database.DB.Model(&models.ProgressEntry{}).
		Select("progress_entries.*, assemblies.total_weight_kg as asm_total").
		Joins("JOIN assemblies ON progress_entries.assembly_mark = assemblies.assembly_mark").
		Where("progress_entries.entry_date = ?", date).
		Order("progress_entries.stage, progress_entries.assembly_mark").
		Scan(&rows).Error
	return rows, err
}

func allAssemblies() ([]models.Assembly, error) {
	var assemblies []models.Assembly
	err := database.DB.Order("assembly_mark").Find(&assemblies).Error
	return assemblies, err
}
