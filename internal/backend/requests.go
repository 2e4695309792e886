package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yigit/gradedesk/internal/app/models/dto"
)

const (
	studentsPath   = "/api/students"
	coursesPath    = "/api/courses"
	resultsPath    = "/api/results"
	gradeSheetPath = "/api/gradesheet/"
)

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newGetRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, path string, body interface{}) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func createListStudentsRequest(ctx context.Context, c *Client, q string) (*http.Request, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	return c.newGetRequest(ctx, studentsPath, query)
}

func createGetGradeSheetRequest(ctx context.Context, c *Client, studentID string, filter dto.GradeSheetFilter) (*http.Request, error) {
	query := url.Values{}
	if filter.Semester != "" {
		query.Set("semester", filter.Semester)
	}
	if filter.Year != "" {
		query.Set("year", filter.Year)
	}
	return c.newGetRequest(ctx, gradeSheetPath+url.PathEscape(studentID), query)
}
