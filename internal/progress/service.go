package progress

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var ErrNotFound = errors.New("ilerleme kaydı bulunamadı")

// ValidationError: Eksik veya hatalı alan.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// PrecedenceError: Aşama sırası ihlali. Eksik olan ön koşul aşamayı taşır.
type PrecedenceError struct {
	AssemblyMark    string
	SubAssemblyMark string
	Stage           models.Stage
	Required        models.Stage
}

func (e *PrecedenceError) Error() string {
	key := e.AssemblyMark
	if e.SubAssemblyMark != "" {
		key += " / " + e.SubAssemblyMark
	}
	return fmt.Sprintf("%s için %s kaydı girilemez: önce %s tamamlanmalı", key, e.Stage, e.Required)
}

// Candidate: Henüz kaydedilmemiş aday ilerleme girişi.
type Candidate struct {
	EntryDate       string       `json:"entry_date"`
	AssemblyMark    string       `json:"assembly_mark"`
	SubAssemblyMark string       `json:"sub_assembly_mark"`
	Stage           models.Stage `json:"stage"`
	WeightKg        float64      `json:"weight_kg"`
	Qty             int          `json:"qty"`
	Remarks         string       `json:"remarks"`
	DeliveryOrderNo string       `json:"delivery_order_no"`
}

// BatchKey: Aynı batch içinde kuyruğa alınmış (montaj, alt montaj, aşama)
// üçlüsü. Kuyruktaki bir giriş sonraki girişin ön koşulu sayılır.
type BatchKey struct {
	AssemblyMark    string
	SubAssemblyMark string
	Stage           models.Stage
}

// QueuedSet: İstek kapsamındaki batch durumu. Ledger kendisi oturum durumu
// tutmaz; kuyruk her doğrulama çağrısına dışarıdan verilir.
type QueuedSet map[BatchKey]bool

func (q QueuedSet) Add(cand Candidate) {
	q[BatchKey{
		AssemblyMark:    strings.TrimSpace(cand.AssemblyMark),
		SubAssemblyMark: models.NormalizeSub(cand.SubAssemblyMark),
		Stage:           cand.Stage,
	}] = true
}

// CompletedStages: (montaj, alt montaj) anahtarı için en az bir kayıtlı girişi
// olan aşamalar. Ağırlık/adet değerine bakılmaz, varlık yeterlidir.
func CompletedStages(assemblyMark, subAssemblyMark string) (map[models.Stage]bool, error) {
	var stages []models.Stage
	err := database.DB.Model(&models.ProgressEntry{}).
		Distinct("stage").
		Where("assembly_mark = ? AND sub_assembly_mark = ?", assemblyMark, models.NormalizeSub(subAssemblyMark)).
		Pluck("stage", &stages).Error
	if err != nil {
		return nil, err
	}

	done := make(map[models.Stage]bool, len(stages))
	for _, s := range stages {
		done[s] = true
	}
	return done, nil
}

// ValidateEntry: Önce alan doğrulaması, sonra aşama sırası kontrolü.
// Aşama S, ancak S-1 aynı anahtar için kayıtlıysa veya aynı batch içinde
// kuyruğa alınmışsa kabul edilir. FIT UP için ön koşul yoktur.
func ValidateEntry(cand Candidate, queued QueuedSet) error {
	mark := strings.TrimSpace(cand.AssemblyMark)
	sub := models.NormalizeSub(cand.SubAssemblyMark)

	if mark == "" {
		return &ValidationError{Field: "assembly_mark", Msg: "Montaj markası zorunlu"}
	}
	if !models.IsValidStage(cand.Stage) {
		return &ValidationError{Field: "stage", Msg: "Geçersiz aşama: " + string(cand.Stage)}
	}
	if cand.EntryDate == "" {
		return &ValidationError{Field: "entry_date", Msg: "Tarih zorunlu"}
	}
	if _, err := time.Parse(dateLayout, cand.EntryDate); err != nil {
		return &ValidationError{Field: "entry_date", Msg: "Tarih formatı 'YYYY-MM-DD' olmalı"}
	}
	if models.RequiresDeliveryOrder(cand.Stage) && strings.TrimSpace(cand.DeliveryOrderNo) == "" {
		return &ValidationError{Field: "delivery_order_no", Msg: string(cand.Stage) + " aşaması için D.O. numarası zorunlu"}
	}

	required, hasPrereq := models.Predecessor(cand.Stage)
	if !hasPrereq {
		return nil
	}

	done, err := CompletedStages(mark, sub)
	if err != nil {
		return err
	}
	if done[required] {
		return nil
	}
	if queued != nil && queued[BatchKey{AssemblyMark: mark, SubAssemblyMark: sub, Stage: required}] {
		return nil
	}

	return &PrecedenceError{
		AssemblyMark:    mark,
		SubAssemblyMark: sub,
		Stage:           cand.Stage,
		Required:        required,
	}
}

// toEntry: Adayı kalıcı kayda çevirir. Ağırlık ve adet negatif olamaz;
// ağırlık 2 ondalığa yuvarlanarak saklanır (saklama/gösterim kuralı).
func toEntry(cand Candidate) models.ProgressEntry {
	w := decimal.NewFromFloat(cand.WeightKg)
	if w.IsNegative() {
		w = decimal.Zero
	}
	weight, _ := w.Round(2).Float64()

	qty := cand.Qty
	if qty < 0 {
		qty = 0
	}

	return models.ProgressEntry{
		EntryDate:       cand.EntryDate,
		AssemblyMark:    strings.TrimSpace(cand.AssemblyMark),
		SubAssemblyMark: models.NormalizeSub(cand.SubAssemblyMark),
		Stage:           cand.Stage,
		WeightKg:        weight,
		Qty:             qty,
		Remarks:         cand.Remarks,
		DeliveryOrderNo: strings.TrimSpace(cand.DeliveryOrderNo),
	}
}

// Append: Tek bir adayı doğrular ve kaydeder.
func Append(cand Candidate) (*models.ProgressEntry, error) {
	if err := ValidateEntry(cand, nil); err != nil {
		return nil, err
	}

	entry := toEntry(cand)
	if err := database.DB.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// CommitBatch: Adayların tamamını önce doğrular (kayıtlı durum + batch içinde
// kendinden önce kuyruğa alınanlar), sonra sırayla tek tek kaydeder.
// Doğrulama aşamasında tek bir aday bile düşerse hiçbir kayıt yazılmaz.
// Kayıt aşaması tek bir transaction DEĞİLDİR: araya çökme girerse kısmi
// commit kalır — bu alan için kabul edilmiş bir durumdur, gizlenmez.
func CommitBatch(cands []Candidate) ([]models.ProgressEntry, error) {
	queued := make(QueuedSet)
	for i, cand := range cands {
		if err := ValidateEntry(cand, queued); err != nil {
			return nil, fmt.Errorf("satır %d: %w", i+1, err)
		}
		queued.Add(cand)
	}

	entries := make([]models.ProgressEntry, 0, len(cands))
	for _, cand := range cands {
		entry := toEntry(cand)
		if err := database.DB.Create(&entry).Error; err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Delete: Kaydı koşulsuz siler, silineni döndürür. Silinen kayda ön koşul
// olarak yaslanmış sonraki girişler yeniden doğrulanmaz — bu manuel bir
// düzeltme aracıdır, transactional undo değil.
func Delete(id uint) (*models.ProgressEntry, error) {
	var entry models.ProgressEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := database.DB.Delete(&models.ProgressEntry{}, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update: Açık düzeltme yolu. Alan doğrulaması yeniden yapılır; aşama sırası
// kontrolü yapılmaz (operatör bilerek düzeltiyor, audit'e iz düşülür).
func Update(id uint, cand Candidate) (*models.ProgressEntry, *models.ProgressEntry, error) {
	var before models.ProgressEntry
	if err := database.DB.First(&before, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	mark := strings.TrimSpace(cand.AssemblyMark)
	if mark == "" {
		return nil, nil, &ValidationError{Field: "assembly_mark", Msg: "Montaj markası zorunlu"}
	}
	if !models.IsValidStage(cand.Stage) {
		return nil, nil, &ValidationError{Field: "stage", Msg: "Geçersiz aşama: " + string(cand.Stage)}
	}
	if _, err := time.Parse(dateLayout, cand.EntryDate); err != nil {
		return nil, nil, &ValidationError{Field: "entry_date", Msg: "Tarih formatı 'YYYY-MM-DD' olmalı"}
	}
	if models.RequiresDeliveryOrder(cand.Stage) && strings.TrimSpace(cand.DeliveryOrderNo) == "" {
		return nil, nil, &ValidationError{Field: "delivery_order_no", Msg: string(cand.Stage) + " aşaması için D.O. numarası zorunlu"}
	}

	after := toEntry(cand)
	after.ID = id
	after.CreatedAt = before.CreatedAt

	err := database.DB.Model(&models.ProgressEntry{}).Where("id = ?", id).Select(
		"entry_date", "assembly_mark", "sub_assembly_mark", "stage",
		"weight_kg", "qty", "remarks", "delivery_order_no",
	).Updates(after).Error
	if err != nil {
		return nil, nil, err
	}
	return &before, &after, nil
}

// SearchFilters: İlerleme araması. Boş alanlar filtre dışı kalır.
type SearchFilters struct {
	Keyword      string
	Stage        models.Stage
	AssemblyMark string
	StartDate    string
	EndDate      string
}

// Search: Filtreli arama. Sıralama: tarih azalan, aşama imalat sırasına göre
// artan, montaj markası artan.
func Search(f SearchFilters) ([]models.ProgressEntry, error) {
	q := database.DB.Model(&models.ProgressEntry{})

	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q = q.Where("(assembly_mark LIKE ? OR remarks LIKE ?)", kw, kw)
	}
	if f.Stage != "" {
		q = q.Where("stage = ?", f.Stage)
	}
	if f.AssemblyMark != "" {
		q = q.Where("assembly_mark = ?", f.AssemblyMark)
	}
	if f.StartDate != "" {
		q = q.Where("entry_date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("entry_date <= ?", f.EndDate)
	}

	var entries []models.ProgressEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}

	// Aşama sıralaması string değil imalat sırası olduğu için Go tarafında
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].EntryDate != entries[j].EntryDate {
			return entries[i].EntryDate > entries[j].EntryDate
		}
		si, sj := models.StageIndex(entries[i].Stage), models.StageIndex(entries[j].Stage)
		if si != sj {
			return si < sj
		}
		return entries[i].AssemblyMark < entries[j].AssemblyMark
	})

	return entries, nil
}

// Deliveries: Sevkiyat görünümü — D.O. numarası taşıyan son iki aşamanın
// kayıtları, en yeni tarih başta.
func Deliveries() ([]models.ProgressEntry, error) {
	var entries []models.ProgressEntry
	err := database.DB.
		Where("stage IN ?", []models.Stage{models.StageBlasting, models.StageSendSite}).
		Order("entry_date DESC, assembly_mark").
		Find(&entries).Error
	return entries, err
}
