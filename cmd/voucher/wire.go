//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"goflare.io/voucher"
	"goflare.io/voucher/app"
	"goflare.io/voucher/config"
	"goflare.io/voucher/console"
	"goflare.io/voucher/coupon"
	"goflare.io/voucher/driver"
	"goflare.io/voucher/promotion_code"
)

func InitializeRunner() (*app.Runner, func(), error) {

	wire.Build(
		config.ProvideApplicationConfig,
		config.NewLogger,
		config.ProvidePostgresConn,
		driver.NewTransactionManager,
		coupon.NewRepository,
		coupon.NewService,
		promotion_code.NewRepository,
		promotion_code.NewService,
		promotion_code.NewRandomGenerator,
		voucher.NewFactory,
		console.NewStdio,
		app.NewRunner,
	)

	return &app.Runner{}, nil, nil
}
