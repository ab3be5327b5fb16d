package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"vitranbakery.vn/bakery-web/internal/consult"
	mw "vitranbakery.vn/bakery-web/internal/middleware"
	"vitranbakery.vn/bakery-web/internal/observability"
)

// ConsultView is the AI consultant section: the form and, after a submission, its outcome.
type ConsultView struct {
	Lang      string
	CSRFToken string
	Input     string
	MaxInput  int
	State     string
	Result    *ConsultResultView
	Error     string
}

// ConsultResultView is a successful recommendation.
type ConsultResultView struct {
	ProductName string
	Reasoning   string
	// Card is nil when the recommended product is not on the menu.
	Card     *ProductCardView
	MenuHref string
}

func newConsultView(r *http.Request) *ConsultView {
	return &ConsultView{
		Lang:      mw.Lang(r),
		CSRFToken: mw.CSRFToken(r),
		MaxInput:  consult.MaxInputRunes,
		// a reload while a consultation runs keeps showing it as submitting
		State: consultant.State(mw.GetSession(r).ID).String(),
	}
}

// ConsultHandler submits the visitor's request to the consultant and renders the outcome.
// Failures are shown inline; the visitor can resubmit manually.
func ConsultHandler(w http.ResponseWriter, r *http.Request) {
	if !consultant.Enabled() {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	view := newConsultView(r)
	view.Input = strings.TrimSpace(r.PostFormValue("q"))
	log := observability.FromContext(r.Context())

	snap, err := catalogLoader.Load(r.Context())
	if err != nil {
		// nothing to recommend from: stay idle, as for a blank request
		log.Warn("consult: catalog unavailable", zap.Error(err))
		renderConsult(w, r, view)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), appConfig.Gemini.Timeout)
	defer cancel()
	res, err := consultant.Submit(ctx, consult.Request{
		SessionID: mw.GetSession(r).ID,
		Input:     view.Input,
	}, snap)
	view.State = res.State.String()
	switch {
	case err == nil:
		view.Result = &ConsultResultView{
			ProductName: res.Recommendation.ProductName,
			Reasoning:   res.Recommendation.Reasoning,
			MenuHref:    "#menu",
		}
		if res.Product != nil {
			if card, cerr := buildProductCard(lang, *res.Product); cerr == nil {
				view.Result.Card = &card
			}
		}
	case errors.Is(err, consult.ErrNotReady):
		// blank input: stay idle
	case errors.Is(err, consult.ErrBusy):
		view.Error = i18nOrDefault(lang, "consult.error.busy", "Vi Trần đang suy nghĩ, bạn đợi một chút nhé...")
	case r.Context().Err() != nil:
		// visitor went away
		return
	default:
		view.Error = i18nOrDefault(lang, "consult.error.generic", "Rất tiếc, AI của chúng tôi đang bận một chút. Bạn vui lòng thử lại sau nhé!")
	}
	renderConsult(w, r, view)
}

func renderConsult(w http.ResponseWriter, r *http.Request, view *ConsultView) {
	if !isFragment(r) {
		// without HTMX the outcome is rendered in place on the full page
		renderHome(w, r, view)
		return
	}
	renderTemplate(w, r, "frag_consult", view)
}
