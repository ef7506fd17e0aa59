// Package tracking 은 배송조회 서비스(tracker.delivery) 클라이언트를 제공한다.
// 토큰 발급, 최신 배송 이벤트 조회, 택배사 자동 감지를 포함한다.
package tracking

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/alimbox/alimbox/internal/model"
)

// trackQuery 는 최신 배송 이벤트 조회 GraphQL 쿼리이다.
const trackQuery = `query Track($carrierId: ID!, $trackingNumber: String!) {
  track(carrierId: $carrierId, trackingNumber: $trackingNumber) {
    lastEvent {
      status {
        name
      }
      time
    }
  }
}`

// detectCarrierQuery 는 송장번호로 택배사를 감지하는 GraphQL 쿼리이다.
const detectCarrierQuery = `query Detect($trackingNumber: String!) {
  detectCarrier(trackingNumber: $trackingNumber) {
    id
    name
  }
}`

// Client 는 배송조회 API 클라이언트이다.
// 토큰은 호출 시마다 새로 발급하며 폴링 주기 간에 재사용하지 않는다.
type Client struct {
	httpClient   *http.Client
	logger       *slog.Logger
	authURL      string
	apiURL       string
	clientID     string
	clientSecret string
}

// NewClient 는 Client 의 새 인스턴스를 생성한다.
func NewClient(httpClient *http.Client, logger *slog.Logger, authURL, apiURL, clientID, clientSecret string) *Client {
	return &Client{
		httpClient:   httpClient,
		logger:       logger,
		authURL:      authURL,
		apiURL:       apiURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Authenticate 는 client_credentials 방식으로 access token 을 발급받는다.
// 실패는 폴링 패스 전체를 중단시키는 치명 에러로 취급된다.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", model.NewAuthFailedError(err.Error())
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("토큰 발급 요청에 실패했습니다",
			slog.String("error", err.Error()),
		)
		return "", model.NewAuthFailedError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("토큰 엔드포인트가 에러 상태를 반환했습니다",
			slog.Int("http_status", resp.StatusCode),
		)
		return "", model.NewAuthFailedError(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", model.NewAuthFailedError(err.Error())
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", model.NewAuthFailedError("토큰 응답 파싱 실패")
	}
	if tokenResp.AccessToken == "" {
		return "", model.NewAuthFailedError("access_token 이 비어 있습니다")
	}

	return tokenResp.AccessToken, nil
}

// graphqlRequest 는 GraphQL 요청 본문이다.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// FetchLatestEvent 는 송장의 최신 배송 이벤트를 조회한다.
// 비정상 HTTP 상태, GraphQL 에러 목록, data.track 누락은 모두
// 해당 구독만 건너뛰는 복구 가능 에러로 매핑된다.
func (c *Client) FetchLatestEvent(ctx context.Context, carrierID, invoice, token string) (*model.TrackEvent, error) {
	var result struct {
		Data struct {
			Track *struct {
				LastEvent *struct {
					Status struct {
						Name string `json:"name"`
					} `json:"status"`
					Time string `json:"time"`
				} `json:"lastEvent"`
			} `json:"track"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	if err := c.query(ctx, token, trackQuery, map[string]interface{}{
		"carrierId":      carrierID,
		"trackingNumber": invoice,
	}, &result); err != nil {
		return nil, err
	}

	if len(result.Errors) > 0 {
		c.logger.Warn("배송조회 응답에 GraphQL 에러가 있습니다",
			slog.String("invoice", invoice),
			slog.String("message", result.Errors[0].Message),
		)
		return nil, model.NewTrackingFailedError(result.Errors[0].Message)
	}
	if result.Data.Track == nil || result.Data.Track.LastEvent == nil {
		c.logger.Warn("배송조회 응답에 데이터가 없습니다",
			slog.String("invoice", invoice),
		)
		return nil, model.NewTrackingFailedError("data.track 이 비어 있습니다")
	}

	return &model.TrackEvent{
		StatusName: result.Data.Track.LastEvent.Status.Name,
		Time:       result.Data.Track.LastEvent.Time,
	}, nil
}

// DetectCarrier 는 송장번호만으로 택배사를 감지한다. 감지 불가 시 nil 을 반환한다.
func (c *Client) DetectCarrier(ctx context.Context, invoice, token string) (*model.Carrier, error) {
	var result struct {
		Data struct {
			DetectCarrier *struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"detectCarrier"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	if err := c.query(ctx, token, detectCarrierQuery, map[string]interface{}{
		"trackingNumber": invoice,
	}, &result); err != nil {
		return nil, err
	}

	if len(result.Errors) > 0 {
		return nil, model.NewTrackingFailedError(result.Errors[0].Message)
	}
	if result.Data.DetectCarrier == nil {
		return nil, nil
	}

	return &model.Carrier{
		ID:   result.Data.DetectCarrier.ID,
		Name: result.Data.DetectCarrier.Name,
	}, nil
}

// ResolveCarrier 는 토큰 발급과 택배사 감지를 묶은 편의 메서드이다.
// 구독 등록 시 carrier_id 가 비어 있을 때 best-effort 로 호출된다.
func (c *Client) ResolveCarrier(ctx context.Context, invoice string) (*model.Carrier, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return c.DetectCarrier(ctx, invoice, token)
}

// query 는 GraphQL 요청을 전송하고 응답 JSON 을 out 으로 디코드한다.
func (c *Client) query(ctx context.Context, token, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return model.NewTrackingFailedError(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return model.NewTrackingFailedError(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("배송조회 API 호출에 실패했습니다",
			slog.String("error", err.Error()),
		)
		return model.NewTrackingFailedError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("배송조회 API 가 에러 상태를 반환했습니다",
			slog.Int("http_status", resp.StatusCode),
		)
		return model.NewTrackingFailedError(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewTrackingFailedError(err.Error())
	}
	if err := json.Unmarshal(body, out); err != nil {
		return model.NewTrackingFailedError("응답 JSON 파싱 실패")
	}

	return nil
}
