package turnscmder_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	turnscmder "github.com/Gorgooo61/AI-character/cmd/character/turns"
	"github.com/Gorgooo61/AI-character/pkg/storage"
	"github.com/Gorgooo61/AI-character/pkg/storage/sqlite"
)

var _ = Describe("Turns command", func() {
	var (
		dir string
		out *bytes.Buffer
	)

	execute := func(args ...string) error {
		root := &cobra.Command{Use: "character", SilenceUsage: true}
		root.PersistentFlags().String("config-dir", dir, "")
		root.PersistentFlags().Bool("debug", false, "")
		root.AddCommand(turnscmder.NewTurnsCmd())
		root.SetOut(out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(append([]string{"turns"}, args...))
		return root.Execute()
	}

	seed := func(turns ...*storage.Turn) {
		driver, err := sqlite.NewDriver(context.Background(), filepath.Join(dir, "turns.db"))
		Expect(err).NotTo(HaveOccurred())
		for _, t := range turns {
			_, err := driver.Put(context.Background(), t)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(driver.Close()).To(Succeed())
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
	})

	It("reports an empty archive", func() {
		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("No archived turns."))
	})

	Context("with a sqlite archive", func() {
		BeforeEach(func() {
			start := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
			seed(
				&storage.Turn{ID: "turn-1", UserText: "hello", AssistantText: "hi there", Emotion: "happy",
					StartedAt: start, CompletedAt: start.Add(2 * time.Second)},
				&storage.Turn{ID: "turn-2", AssistantText: "anyone around?", Autonomous: true,
					StartedAt: start.Add(time.Minute), CompletedAt: start.Add(time.Minute + time.Second)},
			)
		})

		It("lists turns newest first", func() {
			Expect(execute()).To(Succeed())
			s := out.String()
			Expect(s).To(ContainSubstring("hi there"))
			Expect(s).To(ContainSubstring("[autonomous]"))
			Expect(bytes.Index(out.Bytes(), []byte("turn-2"))).To(BeNumerically("<", bytes.Index(out.Bytes(), []byte("turn-1"))))
		})

		It("honours --limit", func() {
			Expect(execute("-n", "1")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("turn-2"))
			Expect(out.String()).NotTo(ContainSubstring("turn-1"))
		})

		It("shows a single turn", func() {
			Expect(execute("turn-1")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("hello"))
			Expect(out.String()).NotTo(ContainSubstring("turn-2"))
		})

		It("fails for an unknown turn", func() {
			Expect(execute("nope")).To(MatchError(storage.ErrNotFound))
		})
	})

	It("refuses to read an in-memory archive locally", func() {
		Expect(execute("--storage", "inmemory")).To(MatchError(ContainSubstring("--api-target")))
	})

	Context("through the API", func() {
		var server *httptest.Server

		BeforeEach(func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/turns":
					Expect(r.URL.Query().Get("limit")).To(Equal("3"))
					json.NewEncoder(w).Encode(map[string]any{
						"turns": []storage.Turn{{ID: "api-turn", AssistantText: "from the api"}},
						"count": 1,
					})
				case "/turns/api-turn":
					json.NewEncoder(w).Encode(storage.Turn{ID: "api-turn", AssistantText: "just this one"})
				default:
					w.WriteHeader(http.StatusNotFound)
					w.Write([]byte(`{"error":"turn not found"}`))
				}
			}))
		})

		AfterEach(func() {
			server.Close()
		})

		It("lists turns", func() {
			Expect(execute("--api-target", server.URL, "-n", "3")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("from the api"))
		})

		It("gets one turn", func() {
			Expect(execute("--api-target", server.URL, "api-turn")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("just this one"))
		})

		It("maps 404 to not found", func() {
			Expect(execute("--api-target", server.URL, "missing")).To(MatchError(storage.ErrNotFound))
		})
	})
})
