package main

// @title Settlement Service API
// @version 1.0
// @description Payment settlement and referral-commission engine: order creation, capture with revenue split, wallets, and payout settlement requests.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/learnpay/settlement-engine
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/learnpay/settlement-engine/blob/main/LICENSE

// @host localhost:8085
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Payments
// @tag.description Order creation, capture, refund and payment queries

// @tag.name Wallets
// @tag.description Wallet balances and ledgers

// @tag.name Settlements
// @tag.description Payout settlement requests and admin processing

// @tag.name Referrals
// @tag.description Referral partner enrollment and code validation

// @tag.name Health
// @tag.description Health check endpoints
