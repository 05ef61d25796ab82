package models

// Stage: İmalat aşaması. Sıralama sabittir ve sistemin temel kuralıdır:
// bir aşamaya geçmeden önce bir önceki aşamanın tamamlanmış olması gerekir.
type Stage string

const (
	StageFitUp    Stage = "FIT UP"
	StageWelding  Stage = "WELDING"
	StageBlasting Stage = "BLASTING & PAINTING"
	StageSendSite Stage = "SEND TO SITE"
)

// Stages: Aşamalar imalat sırasına göre.
var Stages = []Stage{StageFitUp, StageWelding, StageBlasting, StageSendSite}

// stageOrder: Aşama -> sıra indeksi (0 tabanlı).
var stageOrder = map[Stage]int{
	StageFitUp:    0,
	StageWelding:  1,
	StageBlasting: 2,
	StageSendSite: 3,
}

// IsValidStage: Aşama adı tanımlı dört aşamadan biri mi?
func IsValidStage(s Stage) bool {
	_, ok := stageOrder[s]
	return ok
}

// StageIndex: Aşamanın imalat sırasındaki indeksi. Tanımsız aşama için -1.
func StageIndex(s Stage) int {
	idx, ok := stageOrder[s]
	if !ok {
		return -1
	}
	return idx
}

// Predecessor: Aşamanın ön koşulu olan bir önceki aşama.
// İlk aşama (FIT UP) için ön koşul yoktur, ok=false döner.
func Predecessor(s Stage) (Stage, bool) {
	idx, known := stageOrder[s]
	if !known || idx == 0 {
		return "", false
	}
	return Stages[idx-1], true
}

// RequiresDeliveryOrder: Son iki aşama için sevk irsaliyesi (D.O.) numarası zorunludur.
func RequiresDeliveryOrder(s Stage) bool {
	return s == StageBlasting || s == StageSendSite
}
