//go:build integration

package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/app"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/config"
	"github.com/stretchr/testify/suite"
)

type DashboardSuite struct {
	suite.Suite
	app     app.DashboardApp
	cancel  context.CancelFunc
	baseURL string
	client  *http.Client
}

func TestDashboard(t *testing.T) {
	suite.Run(t, new(DashboardSuite))
}

func (ds *DashboardSuite) SetupSuite() {
	cmd := exec.Command("docker", "compose", "-f", "./test-compose.yaml", "up", "-d", "--wait")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		ds.T().Fatalf("cannot start docker compose error: %v", err)
	}

	cfg, err := config.New("config_test.yaml")
	if err != nil {
		ds.T().Fatalf("cannot get config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	a, err := app.New(ctx, cfg)
	if err != nil {
		cancel()
		ds.T().Fatalf("cannot get app error: %v", err)
	}

	ds.app = a
	ds.cancel = cancel
	ds.baseURL = "http://" + cfg.Server.Addr + "/v1"
	ds.client = &http.Client{Timeout: 5 * time.Second}

	go a.Run(ctx)
	time.Sleep(time.Second)
}

func (ds *DashboardSuite) TearDownSuite() {
	ds.cancel()

	cmd := exec.Command("docker", "compose", "-f", "./test-compose.yaml", "down", "-v")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		ds.T().Fatalf("cannot down docker containers error: %v", err)
	}
}

func (ds *DashboardSuite) call(method, path, token string, body, out interface{}) int {
	var buf bytes.Buffer
	if body != nil {
		ds.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ds.baseURL+path, &buf)
	ds.Require().NoError(err)

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ds.client.Do(req)
	ds.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		ds.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func (ds *DashboardSuite) login(email string) string {
	code := ds.call(http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "name": "E2E", "password": "password123",
	}, nil)
	ds.Require().Equal(http.StatusCreated, code)

	var resp struct {
		Token string `json:"token"`
	}

	code = ds.call(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	}, &resp)
	ds.Require().Equal(http.StatusOK, code)
	ds.Require().NotEmpty(resp.Token)

	return resp.Token
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (ds *DashboardSuite) TestHealth() {
	var resp map[string]string

	ds.Require().Equal(http.StatusOK, ds.call(http.MethodGet, "/health", "", nil, &resp))
	ds.Require().Equal("ok", resp["status"])
}

func (ds *DashboardSuite) TestNotesAndTags() {
	token := ds.login("notes@example.com")
	other := ds.login("notes-other@example.com")

	var tag models.Tag

	ds.Require().Equal(http.StatusCreated,
		ds.call(http.MethodPost, "/tags", token, map[string]string{"name": "btc"}, &tag))
	ds.Require().Equal(http.StatusConflict,
		ds.call(http.MethodPost, "/tags", token, map[string]string{"name": "btc"}, nil))

	var note models.Note

	ds.Require().Equal(http.StatusCreated, ds.call(http.MethodPost, "/notes", token, map[string]interface{}{
		"title": "Halving", "content": "supply shock", "tag_ids": []int64{tag.ID},
	}, &note))
	ds.Require().Len(note.Tags, 1)

	ds.Require().Equal(http.StatusBadRequest, ds.call(http.MethodPost, "/notes", other, map[string]interface{}{
		"title": "Steal", "tag_ids": []int64{tag.ID},
	}, nil))

	var notes []models.Note

	ds.Require().Equal(http.StatusOK, ds.call(http.MethodGet, "/notes?q=supply", token, nil, &notes))
	ds.Require().Len(notes, 1)

	ds.Require().Equal(http.StatusOK, ds.call(http.MethodGet, "/notes?q=%25", token, nil, &notes))
	ds.Require().Empty(notes)

	ds.Require().Equal(http.StatusNotFound,
		ds.call(http.MethodGet, "/notes/"+itoa(note.ID), other, nil, nil))

	ds.Require().Equal(http.StatusNoContent,
		ds.call(http.MethodDelete, "/tags/"+itoa(tag.ID), token, nil, nil))
	ds.Require().Equal(http.StatusOK,
		ds.call(http.MethodGet, "/notes/"+itoa(note.ID), token, nil, &note))
	ds.Require().Empty(note.Tags)
}

func (ds *DashboardSuite) TestPortfolioAssets() {
	token := ds.login("portfolio@example.com")

	var p models.Portfolio

	ds.Require().Equal(http.StatusCreated,
		ds.call(http.MethodPost, "/portfolios", token, map[string]string{"name": "main"}, &p))

	var a models.Asset

	ds.Require().Equal(http.StatusCreated, ds.call(http.MethodPost, "/portfolios/"+itoa(p.ID)+"/assets", token,
		map[string]string{"coin_id": "bitcoin", "symbol": "btc", "amount": "0.25", "buy_price": "40000"}, &a))
	ds.Require().Equal("0.25", a.Amount.String())

	ds.Require().Equal(http.StatusBadRequest, ds.call(http.MethodPost, "/portfolios/"+itoa(p.ID)+"/assets", token,
		map[string]string{"coin_id": "bitcoin", "symbol": "btc", "amount": "-1", "buy_price": "1"}, nil))

	ds.Require().Equal(http.StatusOK,
		ds.call(http.MethodGet, "/portfolios/"+itoa(p.ID), token, nil, &p))
	ds.Require().Len(p.Assets, 1)

	ds.Require().Equal(http.StatusNoContent,
		ds.call(http.MethodDelete, "/portfolios/"+itoa(p.ID), token, nil, nil))
}

func (ds *DashboardSuite) TestFeed() {
	author := ds.login("author@example.com")
	reader := ds.login("reader@example.com")

	var post models.Post

	ds.Require().Equal(http.StatusCreated,
		ds.call(http.MethodPost, "/posts", author, map[string]string{"content": "gm"}, &post))

	var like struct {
		Liked bool  `json:"liked"`
		Likes int64 `json:"likes"`
	}

	ds.Require().Equal(http.StatusOK,
		ds.call(http.MethodPost, "/posts/"+itoa(post.ID)+"/like", reader, nil, &like))
	ds.Require().True(like.Liked)
	ds.Require().Equal(int64(1), like.Likes)

	ds.Require().Equal(http.StatusCreated, ds.call(http.MethodPost, "/posts/"+itoa(post.ID)+"/comments", reader,
		map[string]string{"content": "gm gm"}, nil))

	var posts []models.Post

	ds.Require().Equal(http.StatusOK, ds.call(http.MethodGet, "/posts", reader, nil, &posts))
	ds.Require().NotEmpty(posts)
	ds.Require().Equal(post.ID, posts[0].ID)
	ds.Require().True(posts[0].Liked)
	ds.Require().Equal(int64(1), posts[0].Comments)

	ds.Require().Equal(http.StatusNotFound,
		ds.call(http.MethodDelete, "/posts/"+itoa(post.ID), reader, nil, nil))
	ds.Require().Equal(http.StatusNoContent,
		ds.call(http.MethodDelete, "/posts/"+itoa(post.ID), author, nil, nil))
}

func (ds *DashboardSuite) TestAlertsCRUD() {
	token := ds.login("alerts@example.com")

	var a models.PriceAlert

	ds.Require().Equal(http.StatusCreated, ds.call(http.MethodPost, "/alerts", token,
		map[string]string{"coin_id": "bitcoin", "target_price": "100000", "condition": "above"}, &a))
	ds.Require().Equal(models.ConditionAbove, a.Condition)

	ds.Require().Equal(http.StatusBadRequest, ds.call(http.MethodPost, "/alerts", token,
		map[string]string{"coin_id": "bitcoin", "target_price": "1", "condition": "sideways"}, nil))

	var alerts []models.PriceAlert

	ds.Require().Equal(http.StatusOK, ds.call(http.MethodGet, "/alerts", token, nil, &alerts))
	ds.Require().Len(alerts, 1)

	ds.Require().Equal(http.StatusNoContent,
		ds.call(http.MethodDelete, "/alerts/"+itoa(a.ID), token, nil, nil))
}

func (ds *DashboardSuite) TestUnauthorized() {
	ds.Require().Equal(http.StatusUnauthorized, ds.call(http.MethodGet, "/me", "", nil, nil))
	ds.Require().Equal(http.StatusUnauthorized, ds.call(http.MethodGet, "/notes", "forged", nil, nil))
}
