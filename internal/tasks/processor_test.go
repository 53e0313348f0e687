package tasks_test

import (
	"context"
	"encoding/json"
	"errors"

	"antiscam/internal/models"
	"antiscam/internal/repository"
	"antiscam/internal/tasks"

	"github.com/hibiken/asynq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeCases struct {
	byID map[string]*models.Case
	err  error
}

func (f *fakeCases) FindByID(_ context.Context, id string) (*models.Case, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type fakeGenerator struct {
	calls []string
	info  string
	url   string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, c models.Case, info string) (string, error) {
	f.calls = append(f.calls, c.ID.Hex())
	f.info = info
	return f.url, f.err
}

var _ = Describe("NewGenerateReportTask", func() {
	It("encodes the case id and options", func() {
		task, err := tasks.NewGenerateReportTask("65f0c0ffee0000000000abcd", "bank name: XYZ")
		Expect(err).NotTo(HaveOccurred())
		Expect(task.Type()).To(Equal(tasks.TypeGenerateReport))

		var payload tasks.GenerateReportPayload
		Expect(json.Unmarshal(task.Payload(), &payload)).To(Succeed())
		Expect(payload.CaseID).To(Equal("65f0c0ffee0000000000abcd"))
		Expect(payload.AdditionalInfo).To(Equal("bank name: XYZ"))
	})
})

var _ = Describe("HandleGenerateReportTask", func() {
	var (
		id        primitive.ObjectID
		cases     *fakeCases
		generator *fakeGenerator
		p         *tasks.TaskProcessor
	)

	BeforeEach(func() {
		id = primitive.NewObjectID()
		cases = &fakeCases{byID: map[string]*models.Case{
			id.Hex(): {ID: id, Name: "Meera", Email: "meera@example.com"},
		}}
		generator = &fakeGenerator{url: "https://cdn.example.com/report.pdf"}
		p = tasks.NewTaskProcessor(cases, generator, zap.NewNop())
	})

	It("generates the report for a stored case", func() {
		task, err := tasks.NewGenerateReportTask(id.Hex(), "paid via UPI")
		Expect(err).NotTo(HaveOccurred())

		Expect(p.HandleGenerateReportTask(context.Background(), task)).To(Succeed())
		Expect(generator.calls).To(Equal([]string{id.Hex()}))
		Expect(generator.info).To(Equal("paid via UPI"))
	})

	It("is routed by the serve mux", func() {
		task, err := tasks.NewGenerateReportTask(id.Hex(), "")
		Expect(err).NotTo(HaveOccurred())

		Expect(p.NewServeMux().ProcessTask(context.Background(), task)).To(Succeed())
		Expect(generator.calls).To(HaveLen(1))
	})

	It("skips retry for a malformed payload", func() {
		task := asynq.NewTask(tasks.TypeGenerateReport, []byte("{not json"))

		err := p.HandleGenerateReportTask(context.Background(), task)
		Expect(errors.Is(err, asynq.SkipRetry)).To(BeTrue())
		Expect(generator.calls).To(BeEmpty())
	})

	It("skips retry for an unknown case", func() {
		task, err := tasks.NewGenerateReportTask(primitive.NewObjectID().Hex(), "")
		Expect(err).NotTo(HaveOccurred())

		err = p.HandleGenerateReportTask(context.Background(), task)
		Expect(errors.Is(err, asynq.SkipRetry)).To(BeTrue())
	})

	It("retries when the store is unavailable", func() {
		cases.err = errors.New("server selection timeout")
		task, err := tasks.NewGenerateReportTask(id.Hex(), "")
		Expect(err).NotTo(HaveOccurred())

		err = p.HandleGenerateReportTask(context.Background(), task)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, asynq.SkipRetry)).To(BeFalse())
	})

	It("retries when report generation fails", func() {
		generator.err = errors.New("chrome crashed")
		task, err := tasks.NewGenerateReportTask(id.Hex(), "")
		Expect(err).NotTo(HaveOccurred())

		err = p.HandleGenerateReportTask(context.Background(), task)
		Expect(err).To(MatchError("chrome crashed"))
	})
})
