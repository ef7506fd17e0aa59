// Package predict 는 도착 시각 예측을 제공한다.
// 회귀 예측기 추상화, 택배사별 레지스트리, 도착 시각/확률 히스토그램 어댑터를 포함한다.
package predict

// Predictor 는 상태 코드 하나를 특징으로 받아 도착까지의 분을 예측하는 능력 인터페이스이다.
// 통계 모델 자체는 불투명한 교체 가능 의존성이며 이 패키지의 계약에 포함되지 않는다.
type Predictor interface {
	// Predict 는 상태 코드에 대한 예상 소요 분을 반환한다. 음수일 수 있다.
	Predict(code int) (float64, error)
}

// LinearPredictor 는 단일 특징 선형 회귀 예측기이다.
// JSON 아티팩트에서 절편과 계수를 로드해 생성한다.
type LinearPredictor struct {
	Intercept float64
	Coef      float64
}

// Predict 는 intercept + coef*code 를 반환한다. 실패하지 않는다.
func (p *LinearPredictor) Predict(code int) (float64, error) {
	return p.Intercept + p.Coef*float64(code), nil
}

// compile-time interface check
var _ Predictor = (*LinearPredictor)(nil)
