package predict

import (
	"encoding/json"
	"fmt"
	"os"
)

// artifactFile 은 모델 아티팩트 JSON 파일의 최상위 구조이다.
type artifactFile struct {
	Default  *artifactEntry           `json:"default"`
	Carriers map[string]artifactEntry `json:"carriers"`
}

// artifactEntry 는 예측기 하나의 직렬화 형태이다.
type artifactEntry struct {
	Intercept   float64        `json:"intercept"`
	Coef        float64        `json:"coef"`
	StatusCodes map[string]int `json:"status_codes"`
}

func (a artifactEntry) toEntry() *Entry {
	codes := a.StatusCodes
	if codes == nil {
		codes = make(map[string]int)
	}
	return &Entry{
		Predictor:   &LinearPredictor{Intercept: a.Intercept, Coef: a.Coef},
		StatusCodes: codes,
	}
}

// LoadFile 은 JSON 아티팩트 파일에서 Registry 를 구성한다.
// default 엔트리가 없는 파일도 허용하지만, 그 경우 미등록 택배사의 예측은
// ModelUnavailable 로 실패한다.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("모델 아티팩트 파일을 읽지 못했습니다: %w", err)
	}

	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("모델 아티팩트 파싱에 실패했습니다: %w", err)
	}

	reg := NewRegistry()
	if file.Default != nil {
		reg.SetDefault(file.Default.toEntry())
	}
	for carrierID, e := range file.Carriers {
		reg.Register(carrierID, e.toEntry())
	}

	return reg, nil
}
