package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/config"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/material"
	"github.com/san-kum/structdyn/internal/reaction"
)

func do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		Expect(json.NewEncoder(&buf).Encode(b)).To(Succeed())
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](rec *httptest.ResponseRecorder) T {
	var v T
	Expect(json.Unmarshal(rec.Body.Bytes(), &v)).To(Succeed(), rec.Body.String())
	return v
}

func staticRequest() analysis.StaticRequest {
	return analysis.StaticRequest{
		Suspension:   config.DefaultSuspension(),
		AppliedForce: reaction.Vector3{X: 100, Y: 500},
	}
}

var _ = Describe("Server", func() {
	var h http.Handler

	BeforeEach(func() {
		h = New(Options{Rate: 1000, Burst: 1000}).Handler()
	})

	It("reports health", func() {
		rec := do(h, http.MethodGet, "/api/health", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
		Expect(decodeBody[map[string]string](rec)).To(HaveKeyWithValue("status", "ok"))
	})

	It("lists the materials", func() {
		rec := do(h, http.MethodGet, "/api/materials", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		got := decodeBody[[]material.Material](rec)
		Expect(got).To(HaveLen(len(material.List())))
		Expect(got).To(ContainElement(HaveField("Name", "steel4130")))
	})

	Describe("reactions", func() {
		It("solves and checks equilibrium", func() {
			rec := do(h, http.MethodPost, "/api/reactions", reactionsRequest{
				Geometry:     config.DefaultSuspension().Geometry,
				AppliedForce: reaction.Vector3{X: 100, Y: 500},
			})
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			got := decodeBody[reactionsResponse](rec)
			Expect(got.Balanced).To(BeTrue())
			Expect(got.Reactions[reaction.TieRod].Member).To(Equal("tie_rod"))
		})

		It("answers 422 for a degenerate geometry", func() {
			rec := do(h, http.MethodPost, "/api/reactions", `{"applied_force":[1,0,0]}`)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("answers 400 for a zero force", func() {
			rec := do(h, http.MethodPost, "/api/reactions", reactionsRequest{Geometry: config.DefaultSuspension().Geometry})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("static", func() {
		It("runs the analysis", func() {
			rec := do(h, http.MethodPost, "/api/static", staticRequest())
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			got := decodeBody[analysis.StaticResult](rec)
			Expect(got.Balanced).To(BeTrue())
			Expect(got.TieRod.StressSafetyFactor).To(BeNumerically(">", 0))
		})

		It("rejects an unknown material", func() {
			req := staticRequest()
			req.Material = "unobtainium"
			Expect(do(h, http.MethodPost, "/api/static", req).Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects unknown fields and malformed bodies", func() {
			Expect(do(h, http.MethodPost, "/api/static", `{"materail":"steel1020"}`).Code).To(Equal(http.StatusBadRequest))
			Expect(do(h, http.MethodPost, "/api/static", `{`).Code).To(Equal(http.StatusBadRequest))
		})

		It("answers 405 for the wrong method", func() {
			Expect(do(h, http.MethodGet, "/api/static", nil).Code).To(Equal(http.StatusMethodNotAllowed))
		})
	})

	It("runs a fatigue analysis", func() {
		req := analysis.FatigueRequest{
			Suspension:   config.DefaultSuspension(),
			MaximumForce: reaction.Vector3{X: 100, Y: 500},
			MinimumForce: reaction.Vector3{X: -100, Y: 200},
		}
		rec := do(h, http.MethodPost, "/api/fatigue", req)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		got := decodeBody[analysis.FatigueResult](rec)
		Expect(got.TieRod.Fatigue.SafetyFactor).To(BeNumerically(">", 0))
	})

	Describe("knuckle", func() {
		It("carries the reactions to the knuckle", func() {
			rec := do(h, http.MethodPost, "/api/knuckle", analysis.KnuckleRequest{
				StaticRequest: staticRequest(),
				Load:          config.DefaultKnuckleLoad(),
			})
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			got := decodeBody[analysis.KnuckleResult](rec)
			Expect(got.Balanced).To(BeTrue())
			Expect(got.Knuckle.Bearing).To(BeNumerically(">", 0))
			Expect(got.Knuckle.LowerWishbone).To(Equal(got.Reactions.Reactions[reaction.LowerWishboneFront].Vector.Add(
				got.Reactions.Reactions[reaction.LowerWishboneRear].Vector)))
		})

		It("rejects an unknown position", func() {
			load := config.DefaultKnuckleLoad()
			load.Position = "middle"
			rec := do(h, http.MethodPost, "/api/knuckle", analysis.KnuckleRequest{StaticRequest: staticRequest(), Load: load})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("dynamic", func() {
		It("merges the model over the defaults", func() {
			rec := do(h, http.MethodPost, "/api/dynamic/quarter-car",
				`{"model":{"mass":1,"stiffness":1,"damping":0,"force":1,"frequency":0},"options":{"final_time":0.1}}`)
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			got := decodeBody[analysis.DynamicResult](rec)
			Expect(got.Model).To(Equal("quarter-car"))
			Expect(got.Samples).To(Equal(101))
		})

		It("runs the half-car defaults", func() {
			rec := do(h, http.MethodPost, "/api/dynamic/half-car", `{"options":{"time_step":0.005,"final_time":0.5}}`)
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			Expect(decodeBody[analysis.DynamicResult](rec).Channels).To(HaveLen(6))
		})

		It("runs the two-mass model", func() {
			rec := do(h, http.MethodPost, "/api/dynamic/two-mass", `{"model":{"secondary_mass":10},"options":{"time_step":0.01,"final_time":1}}`)
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			got := decodeBody[analysis.DynamicResult](rec)
			Expect(got.Model).To(Equal("two-mass"))
			Expect(got.Channels).To(Equal([]string{"primary", "secondary"}))
		})

		It("rejects unknown model fields", func() {
			rec := do(h, http.MethodPost, "/api/dynamic/quarter-car", `{"model":{"wheels":4}}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("answers 404 for an unknown model", func() {
			Expect(do(h, http.MethodPost, "/api/dynamic/truck", `{}`).Code).To(Equal(http.StatusNotFound))
		})
	})

	It("runs a beam sweep", func() {
		rec := do(h, http.MethodPost, "/api/beam", analysis.BeamRequest{
			NumberOfElements:        2,
			Length:                  1,
			Material:                "steel4130",
			Profile:                 config.DefaultConfig().Beam.Profile,
			Fastenings:              []analysis.NodeFastening{{Node: 0, Type: "pinned"}, {Node: 2, Type: "pinned"}},
			Forces:                  []analysis.NodeValue{{Node: 1, Value: 100}},
			InitialAngularFrequency: 0,
			FinalAngularFrequency:   10,
			AngularFrequencyStep:    10,
			NumberOfPeriods:         1,
		})
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		Expect(decodeBody[analysis.BeamResult](rec).Frequencies).To(HaveLen(2))
	})

	Describe("sweep", func() {
		body := `{"sweep":{"parameters":[{"name":"mass","values":[%s]}],"options":{"time_step":0.01,"final_time":0.5}}}`

		It("runs every combination", func() {
			rec := do(h, http.MethodPost, "/api/sweep/quarter-car", fmt.Sprintf(body, "100,200"))
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			got := decodeBody[analysis.SweepResult](rec)
			Expect(got.Status).To(Equal(analysis.Complete))
			Expect(got.Items).To(HaveLen(2))
		})

		It("keeps failed items as warnings", func() {
			rec := do(h, http.MethodPost, "/api/sweep/quarter-car", fmt.Sprintf(body, "100,0"))
			Expect(rec.Code).To(Equal(http.StatusOK))
			got := decodeBody[analysis.SweepResult](rec)
			Expect(got.Status).To(Equal(analysis.Partial))
			Expect(got.Warnings).To(HaveLen(1))
		})

		It("refuses oversized grids", func() {
			small := New(Options{Rate: 1000, Burst: 1000, MaxSweepItems: 3}).Handler()
			rec := do(small, http.MethodPost, "/api/sweep/quarter-car", fmt.Sprintf(body, "1,2,3,4"))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("renders a static report", func() {
		rec := do(h, http.MethodPost, "/api/report/static?title=Front+left", staticRequest())
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/pdf"))
		Expect(rec.Body.String()).To(HavePrefix("%PDF"))
	})

	It("limits each client", func() {
		limited := New(Options{Rate: 0.001, Burst: 2}).Handler()
		for range 2 {
			Expect(do(limited, http.MethodGet, "/api/health", nil).Code).To(Equal(http.StatusOK))
		}
		Expect(do(limited, http.MethodGet, "/api/health", nil).Code).To(Equal(http.StatusTooManyRequests))

		other := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		other.RemoteAddr = "198.51.100.7:4000"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, other)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	DescribeTable("status mapping",
		func(err error, want int) {
			Expect(statusOf(err)).To(Equal(want))
		},
		Entry("invalid", dynamo.Invalid("x"), http.StatusBadRequest),
		Entry("dimension", fmt.Errorf("wrap: %w", dynamo.ErrDimensionMismatch), http.StatusBadRequest),
		Entry("conflict", dynamo.ErrIOConflict, http.StatusConflict),
		Entry("singular", &dynamo.StepError{Step: 3, Wrapped: dynamo.ErrSingularMatrix}, http.StatusUnprocessableEntity),
		Entry("cancelled", context.Canceled, http.StatusServiceUnavailable),
		Entry("other", errors.New("boom"), http.StatusInternalServerError),
	)
})

var _ = Describe("OptionsFromEnv", func() {
	It("reads the environment over the defaults", func() {
		GinkgoT().Setenv("STRUCTDYN_ADDR", ":9000")
		GinkgoT().Setenv("STRUCTDYN_BURST", "4")
		o, err := OptionsFromEnv()
		Expect(err).NotTo(HaveOccurred())
		Expect(o.Addr).To(Equal(":9000"))
		Expect(o.Burst).To(Equal(4))
		Expect(o.MaxSweepItems).To(Equal(DefaultMaxSweepItems))
	})

	It("rejects bad numbers", func() {
		GinkgoT().Setenv("STRUCTDYN_RATE", "fast")
		_, err := OptionsFromEnv()
		Expect(err).To(MatchError(ContainSubstring("STRUCTDYN_RATE")))
	})
})
