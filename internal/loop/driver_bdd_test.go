package loop_test

import (
	"bytes"
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/focpwm/internal/foc"
	"github.com/san-kum/focpwm/internal/loop"
	"github.com/san-kum/focpwm/internal/pwm"
	"github.com/san-kum/focpwm/internal/telemetry"
)

type brokenOutput struct{ after int }

func (b *brokenOutput) Commit(int, foc.PWMCounter) error {
	if b.after == 0 {
		return errors.New("timer fault")
	}
	b.after--
	return nil
}

var _ = Describe("Driver", func() {
	var (
		driver   *loop.Driver
		recorder *pwm.Recorder
		buf      *bytes.Buffer
		sink     *telemetry.CSV
		cfg      loop.Config
		state    loop.State
	)

	BeforeEach(func() {
		mod, err := foc.NewModulator(foc.DefaultModulatorParams())
		Expect(err).NotTo(HaveOccurred())

		recorder = pwm.NewRecorder(0)
		buf = &bytes.Buffer{}
		sink = telemetry.NewCSV(buf)

		driver = loop.New(foc.NewTransformer(nil), mod)
		driver.SetOutput(recorder)
		driver.SetTelemetry(sink)

		cfg = loop.Config{
			Routine:   loop.SVPWM,
			Command:   foc.Rotating{Q: 2.5},
			AngleStep: 0.1,
			Periods:   63,
			Channel:   2,
		}
		state = loop.State{}
	})

	Context("running the svpwm routine", func() {
		It("commits one compare set per period on the configured channel", func() {
			result, err := driver.Run(context.Background(), &state, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Periods).To(Equal(63))
			Expect(recorder.History(2)).To(HaveLen(63))
			Expect(recorder.History(0)).To(BeEmpty())
		})

		It("keeps every compare value within the counter range", func() {
			cfg.Command = foc.Rotating{Q: 9}
			_, err := driver.Run(context.Background(), &state, cfg)
			Expect(err).NotTo(HaveOccurred())

			for _, c := range recorder.History(2) {
				for _, v := range []float64{c.U, c.V, c.W} {
					Expect(v).To(BeNumerically(">=", 0))
					Expect(v).To(BeNumerically("<=", 5000+1e-9))
				}
			}
		})

		It("streams one CRLF terminated csv line per period", func() {
			_, err := driver.Run(context.Background(), &state, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(sink.Flush()).To(Succeed())

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
			Expect(lines).To(HaveLen(63))
			Expect(strings.Split(lines[0], ",")).To(HaveLen(8))
		})

		It("carries the angle across runs through the caller's state", func() {
			cfg.Periods = 10
			_, err := driver.Run(context.Background(), &state, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Period).To(Equal(10))
			Expect(state.Angle).To(BeNumerically("~", 1.0, 1e-9))

			_, err = driver.Run(context.Background(), &state, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Period).To(Equal(20))
			Expect(state.Angle).To(BeNumerically("~", 2.0, 1e-9))
		})
	})

	Context("when the pwm output fails", func() {
		It("aborts with the failing period, numbered from one", func() {
			driver.SetOutput(&brokenOutput{after: 5})

			result, err := driver.Run(context.Background(), &state, cfg)
			Expect(err).To(HaveOccurred())

			var runErr *loop.RunError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Period).To(Equal(6))
			Expect(result.Periods).To(Equal(5))
		})
	})

	Context("when the context is canceled", func() {
		It("stops before the first period", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := driver.Run(ctx, &state, cfg)
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.Periods).To(BeZero())
			Expect(recorder.History(2)).To(BeEmpty())
		})
	})
})
