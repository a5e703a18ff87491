package extract_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/i474232898/meteobeguda/internal/extract"
	"github.com/i474232898/meteobeguda/internal/weather"
)

type fixtureLoader struct {
	today    weather.Date
	windows  []weather.Window
	readings []weather.Reading
	err      error
}

func (l *fixtureLoader) Load(_ context.Context, w weather.Window) ([]weather.Reading, error) {
	l.windows = append(l.windows, w)
	return l.readings, l.err
}

func (l *fixtureLoader) Today() weather.Date { return l.today }

func loadFixture() []weather.Reading {
	raw, err := os.ReadFile(filepath.Join("..", "weather", "testdata", "downld02.txt"))
	Expect(err).NotTo(HaveOccurred())
	rows, err := weather.Parse(raw)
	Expect(err).NotTo(HaveOccurred())
	readings, err := weather.Normalize(rows)
	Expect(err).NotTo(HaveOccurred())
	return readings
}

var _ = Describe("Extractor", func() {
	var (
		dir    string
		loader *fixtureLoader
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		loader = &fixtureLoader{
			today:    weather.Date{Year: 2022, Month: time.March, Day: 13},
			readings: loadFixture(),
		}
	})

	It("should build year and month directories", func() {
		day := weather.Date{Year: 2022, Month: time.March, Day: 5}
		Expect(extract.Path("data", day)).To(Equal(filepath.Join("data", "2022", "03", "meteolocal-2022-03-05.parquet")))
	})

	It("should reject lookbacks outside one to seven days", func() {
		for _, lookback := range []int{0, 8, -1} {
			_, err := extract.New(loader, extract.Config{DataDir: dir, Lookback: lookback})
			Expect(err).To(HaveOccurred())
		}
		_, err := extract.New(loader, extract.Config{Lookback: 1})
		Expect(err).To(HaveOccurred())
	})

	It("should use the two-day download for a single day", func() {
		e, err := extract.New(loader, extract.Config{DataDir: dir, Lookback: 1})
		Expect(err).NotTo(HaveOccurred())

		paths, err := e.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(loader.windows).To(Equal([]weather.Window{weather.WindowTwoDays}))
		Expect(paths).To(Equal([]string{
			filepath.Join(dir, "2022", "03", "meteolocal-2022-03-12.parquet"),
		}))
	})

	It("should write one file per past day and skip days without data", func() {
		e, err := extract.New(loader, extract.Config{DataDir: dir, Lookback: 3})
		Expect(err).NotTo(HaveOccurred())

		paths, err := e.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(loader.windows).To(Equal([]weather.Window{weather.WindowEightDays}))
		Expect(paths).To(HaveLen(2))

		day12, err := extract.ReadFile(paths[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(day12).To(HaveLen(60))

		day11, err := extract.ReadFile(paths[1])
		Expect(err).NotTo(HaveOccurred())
		Expect(day11).To(HaveLen(95))
		Expect(day11[0].Timestamp).To(Equal(time.Date(2022, time.March, 11, 0, 15, 0, 0, time.UTC)))

		_, err = os.Stat(extract.Path(dir, weather.Date{Year: 2022, Month: time.March, Day: 10}))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("should propagate load failures without writing", func() {
		loader.err = errors.New("station down")
		e, err := extract.New(loader, extract.Config{DataDir: dir, Lookback: 2})
		Expect(err).NotTo(HaveOccurred())

		paths, err := e.Run(context.Background())
		Expect(err).To(MatchError("station down"))
		Expect(paths).To(BeEmpty())
	})

	It("should round-trip every column", func() {
		want := loadFixture()[:10]
		want[3].Rain = math.NaN()
		path := filepath.Join(dir, "sample.parquet")

		Expect(extract.WriteFile(path, want)).To(Succeed())
		got, err := extract.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(len(want)))

		for i := range want {
			Expect(got[i].Timestamp.Equal(want[i].Timestamp)).To(BeTrue())
			Expect(got[i].WindDirection).To(Equal(want[i].WindDirection))
			Expect(got[i].Humidity).To(Equal(want[i].Humidity))
			Expect(got[i].TxWind).To(Equal(want[i].TxWind))
			if i == 3 {
				Expect(math.IsNaN(got[i].Rain)).To(BeTrue())
				continue
			}
			Expect(got[i].Measurements).To(Equal(want[i].Measurements))
		}
	})
})
