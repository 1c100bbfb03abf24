package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fridge-planner/internal/api/handlers/plan"
	"fridge-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PlanClient 遠端規劃服務的客戶端
type PlanClient struct {
	client *resty.Client
}

// NewPlanClient 創建客戶端，baseURL 如 http://localhost:8080
func NewPlanClient(baseURL string, timeout time.Duration) *PlanClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "mealplan-cli").
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &PlanClient{client: client}
}

// CreatePlan 送出規劃請求
func (c *PlanClient) CreatePlan(ctx context.Context, req plan.PlanRequest) (*plan.PlanResponse, error) {
	requestID := common.GenerateUUID()

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetBody(req).
		Post("/api/v1/plan")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to plan server: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, decodeError(resp)
	}

	var result plan.PlanResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse plan response: %w", err)
	}
	if result.Plan == nil {
		return nil, fmt.Errorf("plan server returned an empty body")
	}

	common.LogDebug("遠端規劃完成",
		zap.String("request_id", requestID),
		zap.String("plan_id", result.ID),
		zap.Bool("cached", result.Cached),
	)
	return &result, nil
}

// decodeError 將錯誤回應還原成 CustomError
func decodeError(resp *resty.Response) error {
	var er common.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &er); err != nil || er.Code == "" {
		return common.NewError(common.ErrCodeInternalError,
			fmt.Sprintf("plan server returned %d", resp.StatusCode()),
			resp.StatusCode(), fmt.Errorf("%s", resp.String()))
	}
	msg := er.Message
	if er.Details != "" {
		msg += ": " + er.Details
	}
	return common.NewError(er.Code, msg, resp.StatusCode(), nil)
}
