package controllers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"antiscam/internal/models"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ = Describe("CaseController", func() {
	var (
		f  *fixture
		id primitive.ObjectID
	)

	BeforeEach(func() {
		f = newFixture()
		id = primitive.NewObjectID()
		audio := "https://cdn.example.com/audio/a.mp3"
		f.cases.byID[id.Hex()] = &models.Case{
			ID:      id,
			Name:    "Priya Shah",
			Contact: "+919876543210",
			Address: "21 Link Road, Mumbai",
			Email:   "priya@example.com",
			Context: models.CaseContext{AudioURL: &audio},
		}
	})

	Describe("GET /api/user", func() {
		It("returns the reporter's name by default", func() {
			w := f.do(newGet("/api/user?id=" + id.Hex()))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"fields":"Priya Shah"}`))
		})

		It("returns the full case for the full view", func() {
			w := f.do(newGet("/api/user?view=full&id=" + id.Hex()))

			Expect(w.Code).To(Equal(http.StatusOK))
			fields := decode(w)["fields"].(map[string]any)
			Expect(fields).To(HaveKeyWithValue("_id", id.Hex()))
			Expect(fields).To(HaveKeyWithValue("contact", "+919876543210"))
			Expect(fields).To(HaveKeyWithValue("context", HaveKeyWithValue("audioUrls", "https://cdn.example.com/audio/a.mp3")))
		})

		It("returns only id, name and email for the summary view", func() {
			w := f.do(newGet("/api/user?view=summary&id=" + id.Hex()))

			Expect(w.Code).To(Equal(http.StatusOK))
			fields := decode(w)["fields"].(map[string]any)
			Expect(fields).To(HaveLen(3))
			Expect(fields).To(HaveKeyWithValue("name", "Priya Shah"))
		})

		DescribeTable("errors",
			func(query string, status int, message string) {
				w := f.do(newGet("/api/user" + query))
				Expect(w.Code).To(Equal(status))
				Expect(decode(w)).To(HaveKeyWithValue("error", message))
			},
			Entry("missing id", "", http.StatusBadRequest, "User ID is required"),
			Entry("malformed id", "?id=not-an-id", http.StatusBadRequest, "Invalid user ID format"),
			Entry("unknown id", "?id="+primitive.NewObjectID().Hex(), http.StatusNotFound, "User not found"),
			Entry("unknown id in the full view", "?view=full&id="+primitive.NewObjectID().Hex(), http.StatusNotFound, "User not found"),
		)

		It("hides store failures", func() {
			f.cases.err = errUpstream

			w := f.do(newGet("/api/user?id=" + id.Hex()))
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("secret-internal-detail"))
		})
	})

	Describe("POST /api/proof", func() {
		It("reports uploaded documents", func() {
			w := f.postJSON("/api/proof", map[string]any{"args": map[string]any{"user id": id.Hex()}})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal(`"Documents are uploaded"`))
		})

		It("reports a case without evidence", func() {
			bare := primitive.NewObjectID()
			f.cases.byID[bare.Hex()] = &models.Case{ID: bare, Name: "No Evidence"}

			w := f.postJSON("/api/proof", map[string]any{"args": map[string]any{"user id": bare.Hex()}})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal(`"No documents are uploaded"`))
		})

		It("requires a JSON body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/proof", bytes.NewBufferString("user id="+id.Hex()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			w := f.do(req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("requires the user id", func() {
			w := f.postJSON("/api/proof", map[string]any{"args": map[string]any{}})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)).To(HaveKeyWithValue("error", "Missing 'user id' in request body"))
		})

		It("returns 404 for an unknown case", func() {
			w := f.postJSON("/api/proof", map[string]any{"args": map[string]any{"user id": primitive.NewObjectID().Hex()}})
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
