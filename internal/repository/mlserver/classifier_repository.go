package mlserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"context"

	"smartCampaign/business/targeting"
)

// ModelServerConfig points at the externally hosted campaign model. The
// model is trained offline; this client only knows its predict contract.
type ModelServerConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ModelServerRepository struct {
	cfg    ModelServerConfig
	client *http.Client
}

var _ targeting.Classifier = (*ModelServerRepository)(nil)

func NewModelServerRepository(cfg ModelServerConfig) *ModelServerRepository {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}

	return &ModelServerRepository{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Send    int `json:"send"`
	Segment int `json:"segment"`
}

func (r *ModelServerRepository) Predict(ctx context.Context, features targeting.FeatureVector) (targeting.Prediction, error) {
	payload, err := json.Marshal(predictRequest{Features: features[:]})
	if err != nil {
		return targeting.Prediction{}, fmt.Errorf("failed to marshal predict payload: %w", err)
	}

	url := r.cfg.BaseURL + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return targeting.Prediction{}, err
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return targeting.Prediction{}, fmt.Errorf("model server unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return targeting.Prediction{}, fmt.Errorf("model server returned %d: %s", res.StatusCode, string(body))
	}

	var out predictResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return targeting.Prediction{}, fmt.Errorf("failed to decode prediction: %w", err)
	}

	return targeting.Prediction{
		Send:    out.Send,
		Segment: out.Segment,
	}, nil
}
