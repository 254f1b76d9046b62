package api

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/karchag/karchag-backend/models"
)

type detailOptions struct {
	withSubCategory bool
	withAudio       bool
	activeAudioOnly bool
}

// loadTextDetails attaches summaries, lookups, spans with volumes and optionally
// sub categories and audio to the given texts. Order is preserved.
func loadTextDetails(ctx context.Context, exec boil.ContextExecutor, texts []*models.KagyurText, opts detailOptions) ([]*TextDetail, error) {
	details := make([]*TextDetail, len(texts))
	if len(texts) == 0 {
		return details, nil
	}

	ids := make([]int64, len(texts))
	byID := make(map[int64]*TextDetail, len(texts))
	for i, t := range texts {
		ids[i] = t.ID
		details[i] = &TextDetail{KagyurText: t, YesheDeSpans: make([]*SpanView, 0)}
		byID[t.ID] = details[i]
	}

	// summaries
	summaries, err := models.TextSummaries(qm.Where("text_id = ANY(?)", pq.Array(ids))).All(ctx, exec)
	if err != nil {
		return nil, errors.Wrap(err, "load summaries")
	}
	for _, s := range summaries {
		if d, ok := byID[s.TextID]; ok {
			d.TextSummary = s
		}
	}

	// spans and volumes
	spans, err := models.YesheDeSpans(qm.Where("text_id = ANY(?)", pq.Array(ids)), qm.OrderBy("id")).All(ctx, exec)
	if err != nil {
		return nil, errors.Wrap(err, "load spans")
	}
	if len(spans) > 0 {
		spanIDs := make([]int64, len(spans))
		spanByID := make(map[int64]*SpanView, len(spans))
		for i, s := range spans {
			spanIDs[i] = s.ID
			sv := &SpanView{ID: s.ID, TextID: s.TextID, Volumes: make([]*models.Volume, 0)}
			spanByID[s.ID] = sv
			if d, ok := byID[s.TextID]; ok {
				d.YesheDeSpans = append(d.YesheDeSpans, sv)
			}
		}

		volumes, err := models.Volumes(
			qm.Where("yeshe_de_span_id = ANY(?)", pq.Array(spanIDs)),
			qm.OrderBy("order_index, id"),
		).All(ctx, exec)
		if err != nil {
			return nil, errors.Wrap(err, "load volumes")
		}
		for _, v := range volumes {
			if sv, ok := spanByID[v.YesheDeSpanID]; ok {
				sv.Volumes = append(sv.Volumes, v)
			}
		}
	}

	// lookups
	if err := attachLookups(ctx, exec, details); err != nil {
		return nil, err
	}

	if opts.withSubCategory {
		if err := attachSubCategories(ctx, exec, details); err != nil {
			return nil, err
		}
	}

	if opts.withAudio {
		mods := []qm.QueryMod{qm.Where("text_id = ANY(?)", pq.Array(ids)), ORDERED_MOD}
		if opts.activeAudioOnly {
			mods = append(mods, ACTIVE_MOD)
		}
		audio, err := models.KagyurAudios(mods...).All(ctx, exec)
		if err != nil {
			return nil, errors.Wrap(err, "load audio")
		}
		for _, d := range details {
			d.AudioFiles = make([]*models.KagyurAudio, 0)
		}
		for _, a := range audio {
			if d, ok := byID[a.TextID]; ok {
				d.AudioFiles = append(d.AudioFiles, a)
			}
		}
	}

	return details, nil
}

func loadTextDetail(ctx context.Context, exec boil.ContextExecutor, t *models.KagyurText, opts detailOptions) (*TextDetail, error) {
	details, err := loadTextDetails(ctx, exec, []*models.KagyurText{t}, opts)
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func attachLookups(ctx context.Context, exec boil.ContextExecutor, details []*TextDetail) error {
	bind := []struct {
		table models.LookupTable
		id    func(d *TextDetail) (int64, bool)
		set   func(d *TextDetail, ref *NamedRef)
	}{
		{models.SermonsTable,
			func(d *TextDetail) (int64, bool) { return d.SermonID.Int64, d.SermonID.Valid },
			func(d *TextDetail, ref *NamedRef) { d.Sermon = ref }},
		{models.YanasTable,
			func(d *TextDetail) (int64, bool) { return d.YanaID.Int64, d.YanaID.Valid },
			func(d *TextDetail, ref *NamedRef) { d.Yana = ref }},
		{models.TranslationTypesTable,
			func(d *TextDetail) (int64, bool) { return d.TranslationTypeID.Int64, d.TranslationTypeID.Valid },
			func(d *TextDetail, ref *NamedRef) { d.TranslationType = ref }},
	}

	for _, b := range bind {
		ids := make([]int64, 0)
		for _, d := range details {
			if id, ok := b.id(d); ok {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}

		items, err := b.table.Query(qm.Where("id = ANY(?)", pq.Array(ids))).All(ctx, exec)
		if err != nil {
			return errors.Wrapf(err, "load %s", b.table.Name)
		}
		byID := make(map[int64]*models.Lookup, len(items))
		for _, l := range items {
			byID[l.ID] = l
		}
		for _, d := range details {
			if id, ok := b.id(d); ok {
				if l, found := byID[id]; found {
					b.set(d, lookupRef(l))
				}
			}
		}
	}

	return nil
}

func attachSubCategories(ctx context.Context, exec boil.ContextExecutor, details []*TextDetail) error {
	ids := make([]int64, len(details))
	for i, d := range details {
		ids[i] = d.SubCategoryID
	}

	subs, err := models.SubCategories(qm.Where("id = ANY(?)", pq.Array(ids))).All(ctx, exec)
	if err != nil {
		return errors.Wrap(err, "load sub categories")
	}
	if len(subs) == 0 {
		return nil
	}

	catIDs := make([]int64, len(subs))
	for i, sc := range subs {
		catIDs[i] = sc.MainCategoryID
	}
	cats, err := models.MainCategories(qm.Where("id = ANY(?)", pq.Array(catIDs))).All(ctx, exec)
	if err != nil {
		return errors.Wrap(err, "load main categories")
	}
	catByID := make(map[int64]*NamedRef, len(cats))
	for _, mc := range cats {
		catByID[mc.ID] = &NamedRef{ID: mc.ID, NameEnglish: mc.NameEnglish, NameTibetan: mc.NameTibetan}
	}

	refs := make(map[int64]*SubCategoryRef, len(subs))
	for _, sc := range subs {
		refs[sc.ID] = &SubCategoryRef{
			NamedRef:     NamedRef{ID: sc.ID, NameEnglish: sc.NameEnglish, NameTibetan: sc.NameTibetan},
			MainCategory: catByID[sc.MainCategoryID],
		}
	}
	for _, d := range details {
		d.SubCategory = refs[d.SubCategoryID]
	}

	return nil
}
