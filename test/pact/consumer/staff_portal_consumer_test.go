//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	pacttest "github.com/Apurer/daycare-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type dogPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type assignmentPayload struct {
	ID          int64  `json:"id"`
	DogID       int64  `json:"dogId"`
	StaffID     int64  `json:"staffId"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status  int
	typeURI string
	title   string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s %s (status %d)", e.typeURI, e.title, e.status)
}

func TestStaffPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	staffHeader := matchers.S(strconv.FormatInt(pacttest.StaffID, 10))
	ownerHeader := matchers.S(strconv.FormatInt(pacttest.OwnerID, 10))

	pact.AddInteraction().
		Given(pacttest.StateDogUnassigned).
		UponReceiving("a request for the unassigned dogs of a day").
		WithRequest("GET", "/v1/assignments/unassigned", func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.CallerHeader, staffHeader)
			b.Query("date", matchers.S(pacttest.ScheduleDate))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"id":   matchers.Like(pacttest.DogID),
				"name": matchers.Like(pacttest.DogName),
			}, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateDogAssigned).
		UponReceiving("a request to mark an assignment as picked up").
		WithRequest("POST", fmt.Sprintf("/v1/assignments/%d/status", pacttest.AssignmentID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.CallerHeader, staffHeader)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"status": matchers.S("PICKED_UP")})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":          matchers.Like(pacttest.AssignmentID),
				"dogId":       matchers.Like(pacttest.DogID),
				"staffId":     matchers.Like(pacttest.StaffID),
				"date":        matchers.Term(pacttest.ScheduleDate, `\d{4}-\d{2}-\d{2}`),
				"status":      matchers.S("PICKED_UP"),
				"statusLabel": matchers.S("Picked Up"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateBaseline).
		UponReceiving("a request for a day outside the scheduling window").
		WithRequest("GET", "/v1/assignments/unassigned", func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.CallerHeader, staffHeader)
			b.Query("date", matchers.S(pacttest.OutOfWindowDate))
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/date-out-of-range"),
				"title":  matchers.S("Date Out Of Range"),
				"status": matchers.Like(http.StatusBadRequest),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateBaseline).
		UponReceiving("an owner asking to auto-assign").
		WithRequest("POST", "/v1/assignments/auto-assign", func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.CallerHeader, ownerHeader)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"date": matchers.S(pacttest.ScheduleDate)})
		}).
		WillRespondWith(http.StatusForbidden, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/forbidden"),
				"status": matchers.Like(http.StatusForbidden),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		dogs, err := client.Unassigned(ctx, pacttest.StaffID, pacttest.ScheduleDate)
		if err != nil {
			return fmt.Errorf("unassigned: %w", err)
		}
		if len(dogs) == 0 || dogs[0].ID != pacttest.DogID {
			return fmt.Errorf("expected dog %d to be unassigned, got %+v", pacttest.DogID, dogs)
		}

		assignment, err := client.UpdateStatus(ctx, pacttest.StaffID, pacttest.AssignmentID, "PICKED_UP")
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if assignment.Status != "PICKED_UP" {
			return fmt.Errorf("expected PICKED_UP, got %s", assignment.Status)
		}

		if _, err := client.Unassigned(ctx, pacttest.StaffID, pacttest.OutOfWindowDate); err == nil {
			return fmt.Errorf("expected out-of-window date to be rejected")
		} else if apiErr, ok := err.(apiError); !ok || apiErr.typeURI != "/problems/date-out-of-range" {
			return fmt.Errorf("expected date-out-of-range problem, got %v", err)
		}

		if err := client.AutoAssign(ctx, pacttest.OwnerID, pacttest.ScheduleDate); err == nil {
			return fmt.Errorf("expected owners to be forbidden from auto-assign")
		} else if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusForbidden {
			return fmt.Errorf("expected 403, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *portalClient) Unassigned(ctx context.Context, caller int64, date string) ([]dogPayload, error) {
	var dogs []dogPayload
	err := c.do(ctx, caller, http.MethodGet, "/v1/assignments/unassigned?date="+date, nil, &dogs)
	return dogs, err
}

func (c *portalClient) UpdateStatus(ctx context.Context, caller, assignmentID int64, status string) (*assignmentPayload, error) {
	var assignment assignmentPayload
	path := fmt.Sprintf("/v1/assignments/%d/status", assignmentID)
	if err := c.do(ctx, caller, http.MethodPost, path, map[string]string{"status": status}, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (c *portalClient) AutoAssign(ctx context.Context, caller int64, date string) error {
	return c.do(ctx, caller, http.MethodPost, "/v1/assignments/auto-assign", map[string]string{"date": date}, nil)
}

func (c *portalClient) do(ctx context.Context, caller int64, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set(pacttest.CallerHeader, strconv.FormatInt(caller, 10))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		status := problem.Status
		if status == 0 {
			status = res.StatusCode
		}
		return apiError{status: status, typeURI: problem.Type, title: problem.Title}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
