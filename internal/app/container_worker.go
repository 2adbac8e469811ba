package app

import (
	"go.uber.org/dig"

	"service-bidding/internal/config"
	"service-bidding/internal/logx"
	"service-bidding/internal/service/assignment"
	"service-bidding/internal/service/jobs"
	"service-bidding/internal/service/orders"
	"service-bidding/internal/transport/kafka"
)

var newOrdersConsumer = kafka.NewConsumer

func newOrdersProcessor(reg *jobs.Registry, coord *assignment.Coordinator, logger logx.Logger) *orders.Processor {
	return orders.NewProcessor(reg, coord, logger)
}

func newConsumer(cfg *config.Config, logger logx.Logger, p *orders.Processor) (*kafka.Consumer, error) {
	k := cfg.Kafka
	return newOrdersConsumer(logger, k.Brokers, k.GroupID, k.OrdersTopic, makeOrdersHandler(p))
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		newOrdersProcessor,
		newConsumer,
	)
}
