package predict

import (
	"fmt"
	"time"
)

// Prediction 은 도착 예측 결과이다. Minutes 는 음수일 수 있으며 보정하지 않는다.
type Prediction struct {
	Minutes float64
}

// Forecast 는 도착 예측과 5일 확률 히스토그램을 묶은 결과이다.
type Forecast struct {
	Minutes       float64
	Dates         [5]time.Time
	Probabilities [5]float64
}

// weightTable 은 상태별 5일 확률 가중치 테이블이다(리터럴 값 고정).
var weightTable = map[string][5]float64{
	"집화처리":  {0.05, 0.65, 0.20, 0.07, 0.03},
	"간선상차":  {0.10, 0.60, 0.15, 0.10, 0.05},
	"간선하차":  {0.15, 0.50, 0.20, 0.10, 0.05},
	"배송출발":  {0.20, 0.65, 0.10, 0.03, 0.02},
	"sm 입고": {0.07, 0.65, 0.20, 0.05, 0.03},
}

// defaultWeights 는 테이블에 없는 상태에 적용하는 기본 가중치이다.
var defaultWeights = [5]float64{0.1, 0.5, 0.2, 0.15, 0.05}

// Adapter 는 레지스트리의 예측기를 정규화 상태와 기준 시각의 문맥으로 감싼다.
type Adapter struct {
	reg *Registry
}

// NewAdapter 는 Adapter 를 생성한다.
func NewAdapter(reg *Registry) *Adapter {
	return &Adapter{reg: reg}
}

// Predict 는 carrierID 와 정규화 상태, 기준 시각으로 도착까지의 분을 예측한다.
// 아티팩트 해석 실패는 ModelUnavailable 에러이다.
func (a *Adapter) Predict(carrierID, st string, ref time.Time) (*Prediction, error) {
	minutes, _, err := a.compute(carrierID, st, ref)
	if err != nil {
		return nil, err
	}
	return &Prediction{Minutes: minutes}, nil
}

// PredictForecast 는 도착 예측과 함께 기준일 전일부터 5일 연속의 확률 히스토그램을 반환한다.
func (a *Adapter) PredictForecast(carrierID, st string, ref time.Time) (*Forecast, error) {
	minutes, base, err := a.compute(carrierID, st, ref)
	if err != nil {
		return nil, err
	}

	dates, probs := Histogram(st, base)
	return &Forecast{Minutes: minutes, Dates: dates, Probabilities: probs}, nil
}

// compute 는 예측 분과 히스토그램 기준일을 계산한다.
// 도착일이 일요일이면 기준일을 하루 미룬다. 미뤄진 기준일은 히스토그램의
// 날짜 창에만 쓰이고 반환되는 예측 분에는 반영되지 않는다.
func (a *Adapter) compute(carrierID, st string, ref time.Time) (float64, time.Time, error) {
	entry, err := a.reg.Resolve(carrierID)
	if err != nil {
		return 0, time.Time{}, err
	}

	code := -1
	if c, ok := entry.StatusCodes[st]; ok {
		code = c
	}

	minutes, err := entry.Predictor.Predict(code)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("예측기 호출에 실패했습니다: %w", err)
	}

	arrival := ref.Add(time.Duration(minutes * float64(time.Minute)))
	base := truncateToDate(arrival)
	if base.Weekday() == time.Sunday {
		base = base.AddDate(0, 0, 1)
	}

	return minutes, base, nil
}

// Histogram 은 기준일 전일부터 5일 연속 날짜와 상태별 가중치 확률을 반환한다.
// 일요일에 해당하는 날짜의 확률은 0.0 으로 강제하며, 남은 가중치를
// 재정규화하지 않는다(합이 1 미만일 수 있음).
func Histogram(st string, base time.Time) ([5]time.Time, [5]float64) {
	weights, ok := weightTable[st]
	if !ok {
		weights = defaultWeights
	}

	var dates [5]time.Time
	var probs [5]float64
	for i := 0; i < 5; i++ {
		d := base.AddDate(0, 0, i-1)
		dates[i] = d
		if d.Weekday() == time.Sunday {
			probs[i] = 0.0
		} else {
			probs[i] = weights[i]
		}
	}
	return dates, probs
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
