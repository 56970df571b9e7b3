// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package models defines the data structures shared by the Finpick packages.

Catalog:
  - Bank, Product, ProductOption: finlife deposit and savings catalog
  - ProductFilter, ProductPage: listing filters and paging

Preferences and recommendations:
  - Preference, DynamicQuestion, DynamicAnswer, QuestionOption
  - Recommendation, ScoreBreakdown

Ledger:
  - Subscription, WishlistItem

Accounts and community:
  - User, Article, Comment

Exchange:
  - ExchangeRate, RatePoint, RateChart

Request DTOs carry go-playground/validator tags and are checked by the API
layer before they reach a service. Money amounts and exchange rates use
shopspring/decimal.
*/
package models
