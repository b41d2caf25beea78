package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter QPS 限制器
// TMDB和LLM的外部请求统一通过它排队，保证请求间隔不低于 1/qps
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter 创建新的速率限制器
// qps: 每秒允许的请求数，如果为0或负数则不限制
func NewRateLimiter(qps int) *RateLimiter {
	if qps <= 0 {
		return &RateLimiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}

	// 桶大小为1: 外部目录服务按严格间隔计费，不允许突发
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(qps), 1),
	}
}

// NewRateLimiterRPS 创建小数速率的限制器，LLM类低频接口使用
// rps为0或负数时不限制
func NewRateLimiterRPS(rps float64) *RateLimiter {
	if rps <= 0 {
		return &RateLimiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Wait 等待直到获得令牌，上下文取消时返回错误
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow 检查是否允许当前请求，不阻塞
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// SetQPS 动态设置QPS限制
func (r *RateLimiter) SetQPS(qps int) {
	if qps <= 0 {
		r.limiter.SetLimit(rate.Inf)
		r.limiter.SetBurst(1)
	} else {
		r.limiter.SetLimit(rate.Limit(qps))
		r.limiter.SetBurst(1)
	}
}

// GetQPS 获取当前QPS限制，0表示无限制
func (r *RateLimiter) GetQPS() int {
	limit := r.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return int(limit)
}
