package botdefense

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/salinmesh/lead-intake/pkg/logging"
)

const siteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// scoreThreshold is the minimum reCAPTCHA confidence accepted as human.
const scoreThreshold = 0.5

// RecaptchaVerifier verifies tokens against Google's reCAPTCHA siteverify API.
type RecaptchaVerifier struct {
	secret     string
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// siteVerifyResponse is the subset of the siteverify payload we act on.
type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

// NewRecaptchaVerifier creates a verifier, or nil when no secret is
// configured so callers can treat verification as disabled.
func NewRecaptchaVerifier(secret string, timeout time.Duration, logger *logging.Logger) *RecaptchaVerifier {
	if strings.TrimSpace(secret) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RecaptchaVerifier{
		secret:     secret,
		endpoint:   siteVerifyURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Verify exchanges the token for a verdict. The verdict is true only when the
// service reports success and a confidence score above the threshold.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("botdefense: build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("botdefense: verify call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("botdefense: verify returned status %d", resp.StatusCode)
	}

	var result siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("botdefense: decode verify response: %w", err)
	}

	if len(result.ErrorCodes) > 0 {
		v.logger.Debug("verification error codes", "codes", result.ErrorCodes)
	}

	return result.Success && result.Score > scoreThreshold, nil
}

var _ Verifier = (*RecaptchaVerifier)(nil)
