package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TapeFeed/internal/domain/models"
	"TapeFeed/internal/domain/repository"
	pkgch "TapeFeed/pkg/clickhouse"
)

// CandleArchiveSchema creates the sealed-candle table (idempotent).
var CandleArchiveSchema = []string{
	`CREATE TABLE IF NOT EXISTS candles_sealed (
        token String,
        timeframe String,
        candle_number UInt32,
        start_time DateTime64(3),
        end_time DateTime64(3),
        open Float64,
        high Float64,
        low Float64,
        close Float64,
        volume Float64,
        buy_volume Float64,
        sell_volume Float64,
        trade_count UInt32,
        buy_count UInt32,
        sell_count UInt32,
        fee_total Float64,
        printable UInt8
    ) ENGINE = MergeTree()
    ORDER BY (token, timeframe, start_time)`,
}

// CHCandleArchive implements CandleArchive backed by ClickHouse. Only
// sealed candles are written; they are immutable, which fits an
// append-only MergeTree.
type CHCandleArchive struct {
	db *sql.DB
}

// NewCHCandleArchive creates the archive and ensures the schema exists.
func NewCHCandleArchive(ctx context.Context, ch *pkgch.Client) (repository.CandleArchive, error) {
	if err := ch.InitSchema(ctx, CandleArchiveSchema); err != nil {
		return nil, fmt.Errorf("candle archive schema: %w", err)
	}
	return &CHCandleArchive{db: ch.DB()}, nil
}

func (a *CHCandleArchive) StoreCandle(ctx context.Context, token string, tf repository.Timeframe, c *models.Candle) error {
	const q = `INSERT INTO candles_sealed
        (token, timeframe, candle_number, start_time, end_time,
         open, high, low, close, volume, buy_volume, sell_volume,
         trade_count, buy_count, sell_count, fee_total, printable)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	printable := uint8(0)
	if c.Printable() {
		printable = 1
	}

	_, err := a.db.ExecContext(ctx, q,
		token,
		string(tf),
		uint32(c.CandleNumber),
		time.UnixMilli(c.StartTime),
		time.UnixMilli(c.EndTime),
		c.Open,
		c.High,
		c.Low,
		c.Close,
		c.Volume,
		c.BuyVolume,
		c.SellVolume,
		uint32(c.TradeCount),
		uint32(c.BuyCount),
		uint32(c.SellCount),
		c.Fees.Total,
		printable,
	)
	if err != nil {
		return fmt.Errorf("store candle: %w", err)
	}
	return nil
}

func (a *CHCandleArchive) Close() error {
	return nil // connection pool owned by pkg client
}
