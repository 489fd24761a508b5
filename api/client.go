package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/evilsocket/islazy/log"
	"go.uber.org/ratelimit"

	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/domains"
	"github.com/namepage/namepage/messages"
	"github.com/namepage/namepage/models"
)

var (
	ClientTimeout = 60
	// requests per second
	ClientRate = 5

	ErrNoKeys = errors.New("this operation requires a keypair")
)

const Endpoint = "http://127.0.0.1:8666/api"

type Client struct {
	sync.Mutex

	cli      *http.Client
	endpoint string
	keys     *crypto.KeyPair
	limiter  ratelimit.Limiter
	Clock    func() time.Time
}

type SendResult struct {
	Success   bool   `json:"success"`
	Verified  bool   `json:"verified"`
	MessageID uint   `json:"messageId"`
	Message   string `json:"message"`
}

func NewClient(endpoint string, keys *crypto.KeyPair) *Client {
	if endpoint == "" {
		endpoint = Endpoint
	}
	return &Client{
		cli: &http.Client{
			Timeout: time.Duration(ClientTimeout) * time.Second,
		},
		endpoint: strings.TrimRight(endpoint, "/"),
		keys:     keys,
		limiter:  ratelimit.New(ClientRate, ratelimit.WithoutSlack),
		Clock:    time.Now,
	}
}

func (c *Client) request(method, path string, payload interface{}, obj interface{}) (err error) {
	c.Lock()
	defer c.Unlock()

	c.limiter.Take()

	url := fmt.Sprintf("%s%s", c.endpoint, path)
	started := time.Now()
	defer func() {
		if err == nil {
			log.Debug("%s %s (%s) %v", method, url, time.Since(started), err)
		} else {
			log.Error("%s %s (%s) %v", method, url, time.Since(started), err)
		}
	}()

	var body io.Reader
	if payload != nil {
		buf := new(bytes.Buffer)
		if err = json.NewEncoder(buf).Encode(payload); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &failure)
		return fmt.Errorf("%d %s", res.StatusCode, failure.Error)
	}

	return json.Unmarshal(data, obj)
}

func (c *Client) Messages(target string) ([]models.Message, error) {
	var obj struct {
		Messages []models.Message `json:"messages"`
		Total    int              `json:"total"`
	}
	if err := c.request("GET", "/messages?target="+url.QueryEscape(target), nil, &obj); err != nil {
		return nil, err
	}
	return obj.Messages, nil
}

// SendMessage signs body for target with the client keys and submits it.
func (c *Client) SendMessage(target, body string) (*SendResult, error) {
	if c.keys == nil {
		return nil, ErrNoKeys
	}

	timestamp := c.Clock().UnixNano() / int64(time.Millisecond)
	canonical := messages.CanonicalString(target, body, timestamp, c.keys.Address)
	signature, err := c.keys.SignMessage(canonical)
	if err != nil {
		return nil, err
	}

	log.Debug("SIGN(%q) = %s", canonical, signature)

	var result SendResult
	err = c.request("POST", "/messages", messages.Submission{
		Target:          target,
		Body:            body,
		Signature:       signature,
		Sender:          c.keys.Address,
		Timestamp:       timestamp,
		CanonicalString: canonical,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Ownership(name string) (*domains.Ownership, error) {
	var own domains.Ownership
	if err := c.request("GET", fmt.Sprintf("/domain/%s/ownership", url.PathEscape(name)), nil, &own); err != nil {
		return nil, err
	}
	return &own, nil
}
