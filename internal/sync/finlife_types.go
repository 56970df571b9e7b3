// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package sync

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// finlifeOK is the err_cd the vendor returns for a successful request.
const finlifeOK = "000"

// FinlifeResponse is the envelope shared by every finlife endpoint.
type FinlifeResponse[B any, O any] struct {
	Result FinlifeResult[B, O] `json:"result"`
}

// FinlifeResult carries one page of results.
//
// baseList and optionList are decoded entry by entry. An entry that does not
// decode is left out of BaseList/OptionList and reported in
// RejectedBase/RejectedOptions instead of failing the page.
type FinlifeResult[B any, O any] struct {
	ErrCd      string  `json:"err_cd"`
	ErrMsg     string  `json:"err_msg"`
	TotalCount flexInt `json:"total_count"`
	MaxPageNo  flexInt `json:"max_page_no"`
	NowPageNo  flexInt `json:"now_page_no"`
	BaseList   []B     `json:"baseList"`
	OptionList []O     `json:"optionList"`

	RejectedBase    []RejectedEntry `json:"-"`
	RejectedOptions []RejectedEntry `json:"-"`
}

// RejectedEntry describes a list entry that could not be decoded.
// The codes are recovered on a best-effort basis and may be empty.
type RejectedEntry struct {
	Index     int
	FinPrdtCd string
	FinCoNo   string
	Err       error
}

// Entries is the number of baseList entries on the page, rejected ones included.
func (r *FinlifeResult[B, O]) Entries() int {
	return len(r.BaseList) + len(r.RejectedBase)
}

func (r *FinlifeResult[B, O]) UnmarshalJSON(data []byte) error {
	var raw struct {
		ErrCd      string            `json:"err_cd"`
		ErrMsg     string            `json:"err_msg"`
		TotalCount flexInt           `json:"total_count"`
		MaxPageNo  flexInt           `json:"max_page_no"`
		NowPageNo  flexInt           `json:"now_page_no"`
		BaseList   []json.RawMessage `json:"baseList"`
		OptionList []json.RawMessage `json:"optionList"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = FinlifeResult[B, O]{
		ErrCd:      raw.ErrCd,
		ErrMsg:     raw.ErrMsg,
		TotalCount: raw.TotalCount,
		MaxPageNo:  raw.MaxPageNo,
		NowPageNo:  raw.NowPageNo,
	}
	r.BaseList, r.RejectedBase = decodeEntries[B](raw.BaseList)
	r.OptionList, r.RejectedOptions = decodeEntries[O](raw.OptionList)
	return nil
}

func decodeEntries[T any](raw []json.RawMessage) ([]T, []RejectedEntry) {
	if raw == nil {
		return nil, nil
	}
	items := make([]T, 0, len(raw))
	var rejected []RejectedEntry
	for i, msg := range raw {
		var v T
		if err := json.Unmarshal(msg, &v); err != nil {
			entry := RejectedEntry{Index: i, Err: err}
			entry.FinPrdtCd, entry.FinCoNo = entryCodes(msg)
			rejected = append(rejected, entry)
			continue
		}
		items = append(items, v)
	}
	return items, rejected
}

// entryCodes pulls the identifying codes out of an entry that failed to decode.
func entryCodes(msg json.RawMessage) (prdtCd, coNo string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return "", ""
	}
	str := func(key string) string {
		var s string
		if err := json.Unmarshal(fields[key], &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return str("fin_prdt_cd"), str("fin_co_no")
}

// ProductPage is a deposit or savings product page.
type ProductPage = FinlifeResult[ProductBase, ProductOptionItem]

// CompanyPage is a companySearch page. Its optionList holds branch areas,
// which are not stored.
type CompanyPage = FinlifeResult[CompanyBase, json.RawMessage]

// ProductBase is one baseList entry of a product search.
type ProductBase struct {
	DclsMonth  string  `json:"dcls_month"`
	FinCoNo    string  `json:"fin_co_no"`
	KorCoNm    string  `json:"kor_co_nm"`
	FinPrdtCd  string  `json:"fin_prdt_cd"`
	FinPrdtNm  string  `json:"fin_prdt_nm"`
	JoinWay    string  `json:"join_way"`
	MtrtInt    string  `json:"mtrt_int"`
	SpclCnd    string  `json:"spcl_cnd"`
	JoinDeny   flexInt `json:"join_deny"`
	JoinMember string  `json:"join_member"`
	EtcNote    string  `json:"etc_note"`
	MaxLimit   flexInt `json:"max_limit"`
	HompURL    string  `json:"homp_url"`
	CalTel     string  `json:"cal_tel"`
}

// ProductOptionItem is one optionList entry of a product search.
type ProductOptionItem struct {
	FinCoNo        string    `json:"fin_co_no"`
	FinPrdtCd      string    `json:"fin_prdt_cd"`
	IntrRateType   string    `json:"intr_rate_type"`
	IntrRateTypeNm string    `json:"intr_rate_type_nm"`
	RsrvType       string    `json:"rsrv_type"`
	RsrvTypeNm     string    `json:"rsrv_type_nm"`
	SaveTrm        flexInt   `json:"save_trm"`
	IntrRate       flexFloat `json:"intr_rate"`
	IntrRate2      flexFloat `json:"intr_rate2"`
}

// CompanyBase is one baseList entry of companySearch.
type CompanyBase struct {
	FinCoNo     string `json:"fin_co_no"`
	KorCoNm     string `json:"kor_co_nm"`
	DclsChrgMan string `json:"dcls_chrg_man"`
	HompURL     string `json:"homp_url"`
	CalTel      string `json:"cal_tel"`
}

// flexInt decodes a JSON number, a numeric string, or null.
// The finlife API is inconsistent about quoting integers such as save_trm.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s, null := unquoteNumber(b)
	if null {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", b, err)
	}
	*n = flexInt(int(v))
	return nil
}

// flexFloat decodes a JSON number, a numeric string, or null.
// intr_rate2 is null for some products.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s, null := unquoteNumber(b)
	if null {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", b, err)
	}
	*f = flexFloat(v)
	return nil
}

func unquoteNumber(b []byte) (s string, null bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", true
	}
	s = strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" {
		return "", true
	}
	return strings.ReplaceAll(s, ",", ""), false
}
