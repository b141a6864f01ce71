//go:build integration

package integration

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/config"
	"github.com/eliteGoblin/wellbeingd/internal/daemon"
	"github.com/eliteGoblin/wellbeingd/internal/domain"
	"github.com/eliteGoblin/wellbeingd/internal/store"
	"github.com/eliteGoblin/wellbeingd/internal/usecase"
)

var (
	_ domain.WindowQuerier  = (*fakeWindows)(nil)
	_ domain.ProcessManager = (*fakeProcs)(nil)
	_ domain.Notifier       = (*fakeNotifier)(nil)
)

type fakeWindows struct{ name string }

func (f *fakeWindows) ActiveWindow() (string, error) { return f.name, nil }

type fakeProcs struct {
	pids       []int
	terminated []int
}

func (f *fakeProcs) FindByExactName(string) ([]int, error) { return f.pids, nil }
func (f *fakeProcs) Terminate(pid int) error {
	f.terminated = append(f.terminated, pid)
	return nil
}
func (f *fakeProcs) IsRunning(int) bool { return true }
func (f *fakeProcs) GetCurrentPID() int { return os.Getpid() }

type fakeNotifier struct{ titles []string }

func (f *fakeNotifier) Notify(title, _ string, _ bool) error {
	f.titles = append(f.titles, title)
	return nil
}

var _ = Describe("Limit enforcement end to end", func() {
	var (
		tmpDir   string
		st       *store.Store
		d        *daemon.Daemon
		procs    *fakeProcs
		notifier *fakeNotifier
		svc      *usecase.Service
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "wellbeingd-integration-*")
		Expect(err).NotTo(HaveOccurred())

		st, err = store.Open(tmpDir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		procs = &fakeProcs{pids: []int{4242}}
		notifier = &fakeNotifier{}
		svc = usecase.NewService(st, zap.NewNop())

		cfg := config.DefaultConfig()
		cfg.DataDir = tmpDir

		d, err = daemon.New(cfg, st, &fakeWindows{}, procs, notifier, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		st.Close()
		os.RemoveAll(tmpDir)
	})

	Describe("a limit with blocking enabled", func() {
		BeforeEach(func() {
			Expect(svc.SetLimit("Steam", 60, true)).To(Succeed())
		})

		Context("when usage reaches the limit", func() {
			BeforeEach(func() {
				Expect(st.RecordUsage("Steam", 3600*time.Second)).To(Succeed())
				d.Evaluate(time.Now())
			})

			It("terminates the app's processes", func() {
				Expect(procs.terminated).To(ContainElement(4242))
			})

			It("records durable block intent", func() {
				blocked, err := st.BlockedAppNames()
				Expect(err).NotTo(HaveOccurred())
				Expect(blocked).To(ConsistOf("Steam"))
			})

			It("notifies once about the exceeded limit", func() {
				Expect(notifier.titles).To(ContainElement("Usage limit reached"))
				count := 0
				d.Evaluate(time.Now())
				for _, title := range notifier.titles {
					if title == "Usage limit reached" {
						count++
					}
				}
				Expect(count).To(Equal(1))
			})

			It("grants emergency access and re-blocks after expiry", func() {
				Expect(svc.RequestEmergency("Steam")).To(Succeed())

				now := time.Now()
				d.Evaluate(now)
				Expect(d.IsBlocked("Steam", now.Add(time.Second))).To(BeFalse())

				d.Evaluate(now.Add(11 * time.Minute))
				Expect(d.IsBlocked("Steam", now.Add(12*time.Minute))).To(BeTrue())
			})
		})

		Context("when usage stays below the warning threshold", func() {
			It("takes no action", func() {
				Expect(st.RecordUsage("Steam", 600*time.Second)).To(Succeed())
				d.Evaluate(time.Now())
				Expect(procs.terminated).To(BeEmpty())
				Expect(notifier.titles).To(BeEmpty())
			})
		})
	})

	Describe("restart recovery", func() {
		It("rebuilds the block registry from durable intent", func() {
			Expect(svc.SetLimit("Steam", 60, true)).To(Succeed())
			Expect(st.RecordUsage("Steam", 3600*time.Second)).To(Succeed())
			d.Evaluate(time.Now())

			// A fresh daemon against the same store restores the block.
			cfg := config.DefaultConfig()
			cfg.DataDir = tmpDir
			d2, err := daemon.New(cfg, st, &fakeWindows{}, procs, notifier, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())
			Expect(d2.Rebuild()).To(Succeed())
			Expect(d2.IsBlocked("Steam", time.Now())).To(BeTrue())
		})
	})
})

var _ = Describe("Usage recording and reporting", func() {
	var (
		tmpDir string
		st     *store.Store
		svc    *usecase.Service
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "wellbeingd-integration-*")
		Expect(err).NotTo(HaveOccurred())
		st, err = store.Open(tmpDir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		svc = usecase.NewService(st, zap.NewNop())
	})

	AfterEach(func() {
		st.Close()
		os.RemoveAll(tmpDir)
	})

	It("sums sessions into the daily aggregate", func() {
		Expect(st.RecordUsage("Firefox", 90*time.Second)).To(Succeed())
		Expect(st.RecordUsage("Firefox", 30*time.Second)).To(Succeed())

		daily, err := svc.DailyUsage()
		Expect(err).NotTo(HaveOccurred())
		Expect(daily).To(HaveLen(1))
		Expect(daily[0].DurationSeconds).To(Equal(int64(120)))
	})

	It("round-trips usage through CSV export", func() {
		Expect(svc.SetCategory("Firefox", "browser")).To(Succeed())
		Expect(st.RecordUsage("Firefox", 300*time.Second)).To(Succeed())

		today := time.Now().Format("2006-01-02")
		out, err := svc.ExportUsage(today, today, "csv")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Firefox,browser,300,1"))
	})

	It("survives a reopen with the same schema and data", func() {
		Expect(st.RecordUsage("Firefox", 60*time.Second)).To(Succeed())
		Expect(st.Close()).To(Succeed())

		reopened, err := store.Open(tmpDir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		defer reopened.Close()

		version, err := reopened.SchemaVersion()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeNumerically(">", 0))

		used, err := reopened.UsageToday("Firefox")
		Expect(err).NotTo(HaveOccurred())
		Expect(used).To(Equal(int64(60)))
	})
})
