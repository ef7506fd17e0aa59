package predict

import "github.com/alimbox/alimbox/internal/model"

// Entry 는 택배사 하나에 대한 예측기와 상태→코드 매핑의 쌍이다.
type Entry struct {
	Predictor Predictor
	// StatusCodes 는 정규화 상태를 회귀 특징 코드로 매핑한다.
	// 매핑에 없는 상태는 코드 -1 로 처리한다(에러 아님).
	StatusCodes map[string]int
}

// Registry 는 택배사 ID 를 키로 예측 아티팩트를 보관한다.
// 기동 시 한 번 구성되며 이후에는 읽기 전용이다.
type Registry struct {
	entries      map[string]*Entry
	defaultEntry *Entry
}

// NewRegistry 는 빈 Registry 를 생성한다.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register 는 택배사별 엔트리를 등록한다.
func (r *Registry) Register(carrierID string, e *Entry) {
	r.entries[carrierID] = e
}

// SetDefault 는 택배사별 엔트리가 없을 때 사용할 기본 엔트리를 설정한다.
func (r *Registry) SetDefault(e *Entry) {
	r.defaultEntry = e
}

// Resolve 는 carrierID 에 해당하는 엔트리를 반환한다.
// 택배사별 엔트리가 없으면 기본 엔트리를 반환하고,
// 기본 엔트리도 없으면 ModelUnavailable 에러를 반환한다.
func (r *Registry) Resolve(carrierID string) (*Entry, error) {
	if carrierID != "" {
		if e, ok := r.entries[carrierID]; ok {
			return e, nil
		}
	}
	if r.defaultEntry != nil {
		return r.defaultEntry, nil
	}
	return nil, model.NewModelUnavailableError(carrierID)
}
