// Package mocks provides gomock implementations of the creator service's outbound ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	influencers := mocks.NewMockInfluencerClient(ctrl)
//	influencers.EXPECT().AcceptBid(gomock.Any(), "bid-1").Return(bid, nil)
//
// Repository and transactor fakes live in internal/mocks/memory; hire atomicity
// is easier to assert against real state than against call expectations.
package mocks

// Generate mock for InfluencerClient interface from internal/core package.
// This creates MockInfluencerClient with methods for all InfluencerClient interface methods:
// AcceptBid, CreateJobRequest, IsSuspended, MarkComplete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=influencer_client_mock.go github.com/iynfluencer/creator-service/internal/core InfluencerClient

// Generate mock for PaymentClient interface from internal/core package.
// This creates MockPaymentClient with methods for all PaymentClient interface methods:
// PayBid
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=payment_client_mock.go github.com/iynfluencer/creator-service/internal/core PaymentClient

// Generate mock for EventPublisher interface from internal/core package.
// This creates MockEventPublisher with methods for all EventPublisher interface methods:
// Publish
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=event_publisher_mock.go github.com/iynfluencer/creator-service/internal/core EventPublisher

// Generate mock for ErrorReporter interface from internal/core package.
// This creates MockErrorReporter with methods for all ErrorReporter interface methods:
// Capture
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=error_reporter_mock.go github.com/iynfluencer/creator-service/internal/core ErrorReporter
