package session_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/session"
)

var _ = Describe("Manager", func() {
	var (
		tempDir string
		manager *session.Manager
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		var err error
		manager, err = session.NewManager(tempDir)
		Expect(err).NotTo(HaveOccurred())
	})

	It("places the state and lock files in the character dir", func() {
		Expect(manager.StatePath).To(Equal(filepath.Join(tempDir, "session.json")))
		Expect(manager.LockPath).To(Equal(filepath.Join(tempDir, "session.lock")))
	})

	It("returns nil state when nothing was saved", func() {
		state, err := manager.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(BeNil())
	})

	It("saves and loads state", func() {
		started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		Expect(manager.Save(&session.State{
			Name:        "mika",
			CaptureMode: "api",
			APIURL:      "http://localhost:8081",
			StartedAt:   started,
		})).To(Succeed())

		loaded, err := manager.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).NotTo(BeNil())
		Expect(loaded.Version).To(Equal(1))
		Expect(loaded.PID).To(Equal(os.Getpid()))
		Expect(loaded.Name).To(Equal("mika"))
		Expect(loaded.CaptureMode).To(Equal("api"))
		Expect(loaded.APIURL).To(Equal("http://localhost:8081"))
		Expect(loaded.StartedAt.Equal(started)).To(BeTrue())
		Expect(loaded.UpdatedAt).NotTo(BeZero())
	})

	It("clears state and tolerates a missing file", func() {
		Expect(manager.Save(&session.State{Name: "mika"})).To(Succeed())
		Expect(manager.Clear()).To(Succeed())
		Expect(manager.Clear()).To(Succeed())

		state, err := manager.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(BeNil())
	})

	It("reports malformed state", func() {
		Expect(os.WriteFile(manager.StatePath, []byte("{"), 0o600)).To(Succeed())
		_, err := manager.Load()
		Expect(err).To(MatchError(ContainSubstring("parsing session state")))
	})

	Describe("Acquire", func() {
		It("refuses a second holder until the first releases", func() {
			lock, err := manager.Acquire()
			Expect(err).NotTo(HaveOccurred())

			_, err = manager.Acquire()
			Expect(err).To(MatchError(session.ErrAlreadyRunning))

			Expect(lock.Release()).To(Succeed())
			Expect(lock.Release()).To(Succeed())

			again, err := manager.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Release()).To(Succeed())
		})
	})
})
