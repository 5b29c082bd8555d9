package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	codeRepo "github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/service"
	offerModel "github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"
	offerRepo "github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/pkg/database"

	"github.com/shopspring/decimal"
)

// 直接对数据库压测认领语句：多个买家同时抢同一商品的券码，校验不会重复发放
func main() {
	var (
		buyers   = flag.Int("buyers", 2000, "并发买家数")
		stock    = flag.Int("stock", 50, "商品券码数")
		perBuyer = flag.Int("qty", 1, "每个买家购买数量")
		keep     = flag.Bool("keep", false, "结束后保留测试商品")
	)
	flag.Parse()

	config.LoadConfig()
	db, err := database.InitDatabase(config.GlobalConfig.Database, false)
	if err != nil {
		log.Fatal(err)
	}
	sx, err := database.NewSQLX(db)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	offers := offerRepo.NewOfferRepository(db)
	codes := codeRepo.NewCodeRepository(db, sx)
	inventory := service.NewInventoryService(codes, nil)

	// 1. 准备商品和券码
	offer := &offerModel.Offer{
		Brand:    "Stress",
		Discount: "0%",
		Price:    decimal.NewFromInt(1),
	}
	if err := offers.Create(ctx, offer); err != nil {
		log.Fatal(err)
	}
	if !*keep {
		defer func() {
			if err := offers.Delete(ctx, offer.ID); err != nil {
				log.Printf("清理测试商品失败: %v", err)
			}
		}()
	}

	raw := make([]string, *stock)
	for i := range raw {
		raw[i] = fmt.Sprintf("STRESS-%s-%05d", offer.ID[:8], i)
	}
	if _, err := inventory.AddCodes(ctx, offer.ID, raw); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("开始压测：%d 个买家并发抢 %d 个券码 (每人 %d 个, offer: %s)...\n", *buyers, *stock, *perBuyer, offer.ID)

	// 2. 并发认领
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		seen     = make(map[string]string, *stock)
		dupes    []string
		full     int
		short    int
		failures int
	)

	start := time.Now()
	for i := 0; i < *buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			claimant := fmt.Sprintf("pay_stress_%06d", i)
			got, err := inventory.Allocate(ctx, offer.ID, *perBuyer, claimant)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				return
			}
			if len(got) == *perBuyer {
				full++
			} else {
				short++
			}
			for _, c := range got {
				if prev, ok := seen[c]; ok {
					dupes = append(dupes, fmt.Sprintf("%s (%s / %s)", c, prev, claimant))
					continue
				}
				seen[c] = claimant
			}
		}(i)
	}
	wg.Wait()
	duration := time.Since(start)

	// 3. 结果
	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("QPS: %.2f\n", float64(*buyers)/duration.Seconds())
	fmt.Printf("足量认领: %d, 部分认领: %d, 失败: %d\n", full, short, failures)
	fmt.Printf("发出券码: %d (库存: %d)\n", len(seen), *stock)
	fmt.Println("--------------------------------------------------")

	if len(dupes) > 0 {
		log.Fatalf("发现重复发放的券码: %v", dupes)
	}
	if want := min(*stock, (*buyers)*(*perBuyer)); len(seen) != want && failures == 0 {
		log.Fatalf("券码数量不守恒: 发出 %d, 预期 %d", len(seen), want)
	}
	fmt.Println("未发现重复券码")
}
