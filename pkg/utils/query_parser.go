package utils

import (
	"net/url"
	"strconv"
	"strings"

	"nauticare/pkg/types"
)

// ParseRequestFilter reads the list-view query string into a RequestFilter.
// status_group and urgency are a radio pair; whichever appears last in the
// query wins and clears the other.
func ParseRequestFilter(query url.Values) types.RequestFilter {
	filter := types.RequestFilter{
		SortBy:    types.SortByDate,
		SortOrder: types.SortDesc,
		Limit:     20,
		Page:      1,
	}

	if search := strings.TrimSpace(query.Get("search")); search != "" {
		filter.Search = search
	}

	if group := query.Get("status_group"); group != "" {
		filter.SelectStatusGroup(group)
	}
	if urgency := query.Get("urgency"); urgency != "" {
		filter.SelectUrgency(urgency)
	}

	if sort := query.Get("sort"); sort != "" {
		if strings.HasPrefix(sort, "-") {
			filter.SortOrder = types.SortDesc
			filter.SortBy = sort[1:]
		} else {
			filter.SortOrder = types.SortAsc
			filter.SortBy = sort
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.ParseUint(limitStr, 10, 64); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.ParseUint(offsetStr, 10, 64); err == nil {
			filter.Offset = o
			if filter.Limit > 0 {
				filter.Page = (o / filter.Limit) + 1
			}
		}
	}
	if pageStr := query.Get("page"); pageStr != "" && filter.Offset == 0 {
		if p, err := strconv.ParseUint(pageStr, 10, 64); err == nil && p > 0 {
			filter.Page = p
			filter.Offset = (p - 1) * filter.Limit
		}
	}

	filter.WithPagination = query.Get("with_pagination") == "true"

	return filter
}
