package vtubestudio_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/animation"
	"github.com/Gorgooo61/AI-character/pkg/animation/vtubestudio"
)

type message struct {
	APIName     string         `json:"apiName"`
	APIVersion  string         `json:"apiVersion"`
	RequestID   string         `json:"requestID"`
	MessageType string         `json:"messageType"`
	Data        map[string]any `json:"data"`
}

// fakeVTS answers the subset of the public API the driver uses.
type fakeVTS struct {
	mu        sync.Mutex
	token     string
	received  []message
	hotkeyErr string
}

func (f *fakeVTS) messages() []message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]message(nil), f.received...)
}

func (f *fakeVTS) handler() http.Handler {
	upgrader := websocket.Upgrader{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req message
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			f.mu.Lock()
			f.received = append(f.received, req)
			resp := message{
				APIName:     req.APIName,
				APIVersion:  req.APIVersion,
				RequestID:   req.RequestID,
				MessageType: strings.TrimSuffix(req.MessageType, "Request") + "Response",
				Data:        map[string]any{},
			}
			switch req.MessageType {
			case "AuthenticationTokenRequest":
				resp.Data["authenticationToken"] = "fresh-token"
			case "AuthenticationRequest":
				resp.Data["authenticated"] = req.Data["authenticationToken"] == f.token
			case "HotkeyTriggerRequest":
				if f.hotkeyErr != "" {
					resp.MessageType = "APIError"
					resp.Data["errorID"] = 50
					resp.Data["message"] = f.hotkeyErr
				} else {
					resp.Data["hotkeyID"] = req.Data["hotkeyID"]
				}
			}
			f.mu.Unlock()
			b, _ := json.Marshal(resp)
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	})
}

var _ = Describe("Driver", func() {
	var (
		fake      *fakeVTS
		server    *httptest.Server
		wsURL     string
		tokenPath string
	)

	BeforeEach(func() {
		fake = &fakeVTS{token: "fresh-token"}
		server = httptest.NewServer(fake.handler())
		wsURL = "ws" + strings.TrimPrefix(server.URL, "http")
		tokenPath = filepath.Join(GinkgoT().TempDir(), "token.txt")
	})

	AfterEach(func() {
		server.Close()
	})

	It("requests a token, persists it and triggers the hotkey", func() {
		d := vtubestudio.New(vtubestudio.Config{URL: wsURL, TokenPath: tokenPath}, nil)
		defer d.Close()

		Expect(d.Trigger(context.Background(), "exp_joy")).To(Succeed())

		msgs := fake.messages()
		Expect(msgs).To(HaveLen(3))
		Expect(msgs[0].MessageType).To(Equal("AuthenticationTokenRequest"))
		Expect(msgs[0].APIName).To(Equal("VTubeStudioPublicAPI"))
		Expect(msgs[0].Data).To(HaveKeyWithValue("pluginName", vtubestudio.DefaultPluginName))
		Expect(msgs[0].Data).To(HaveKeyWithValue("pluginDeveloper", vtubestudio.DefaultPluginDeveloper))
		Expect(msgs[1].MessageType).To(Equal("AuthenticationRequest"))
		Expect(msgs[2].MessageType).To(Equal("HotkeyTriggerRequest"))
		Expect(msgs[2].Data).To(HaveKeyWithValue("hotkeyID", "exp_joy"))

		saved, err := os.ReadFile(tokenPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(saved)).To(Equal("fresh-token"))
	})

	It("reuses a persisted token", func() {
		Expect(os.WriteFile(tokenPath, []byte("fresh-token\n"), 0o600)).To(Succeed())
		d := vtubestudio.New(vtubestudio.Config{URL: wsURL, TokenPath: tokenPath}, nil)
		defer d.Close()

		Expect(d.Trigger(context.Background(), "exp_joy")).To(Succeed())
		msgs := fake.messages()
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0].MessageType).To(Equal("AuthenticationRequest"))
	})

	It("replaces a rejected persisted token", func() {
		Expect(os.WriteFile(tokenPath, []byte("stale"), 0o600)).To(Succeed())
		d := vtubestudio.New(vtubestudio.Config{URL: wsURL, TokenPath: tokenPath}, nil)
		defer d.Close()

		Expect(d.Trigger(context.Background(), "exp_joy")).To(Succeed())
		types := []string{}
		for _, m := range fake.messages() {
			types = append(types, m.MessageType)
		}
		Expect(types).To(Equal([]string{
			"AuthenticationRequest",
			"AuthenticationTokenRequest",
			"AuthenticationRequest",
			"HotkeyTriggerRequest",
		}))
	})

	It("surfaces APIError replies", func() {
		fake.hotkeyErr = "hotkey not found"
		d := vtubestudio.New(vtubestudio.Config{URL: wsURL}, nil)
		defer d.Close()

		err := d.Trigger(context.Background(), "missing")
		Expect(err).To(MatchError(vtubestudio.ErrAPI))
		Expect(err.Error()).To(ContainSubstring("hotkey not found"))
	})

	It("fails to trigger when nothing is listening", func() {
		server.Close()
		d := vtubestudio.New(vtubestudio.Config{URL: wsURL}, nil)
		Expect(d.Trigger(context.Background(), "exp_joy")).NotTo(Succeed())
	})

	It("refuses triggers after Close", func() {
		d := vtubestudio.New(vtubestudio.Config{URL: wsURL}, nil)
		Expect(d.Close()).To(Succeed())
		Expect(d.Trigger(context.Background(), "exp_joy")).To(MatchError(animation.ErrStopped))
	})
})
