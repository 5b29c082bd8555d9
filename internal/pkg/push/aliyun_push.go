package push

import (
	"encoding/json"
	"fmt"

	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
)

// PushService 推送通道
type PushService interface {
	PushToAccount(accountID string, title, body string, extParameters map[string]string) error
}

type AliyunPushService struct {
	client *push.Client
	appKey int64
}

func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	// 配置为空时不阻塞启动，由调用方决定是否降级为只记日志
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, fmt.Errorf("push config is missing")
	}

	client, err := push.NewClientWithAccessKey(
		cfg.RegionID,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, err
	}

	return &AliyunPushService{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

func (s *AliyunPushService) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(s.appKey))
	request.Target = "ACCOUNT"
	request.TargetValue = accountID
	request.Title = title
	request.Body = body
	request.DeviceType = "ALL"
	request.PushType = "NOTICE"

	if len(extParameters) > 0 {
		extJSON, err := json.Marshal(extParameters)
		if err != nil {
			return err
		}
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}

	_, err := s.client.Push(request)
	return err
}

// OperatorNotifier 把运营告警推送到值班账号
type OperatorNotifier struct {
	push    PushService
	account string
}

func NewOperatorNotifier(p PushService, account string) *OperatorNotifier {
	return &OperatorNotifier{push: p, account: account}
}

func (n *OperatorNotifier) NotifyOperator(title, body string, ext map[string]string) error {
	if n.account == "" {
		return fmt.Errorf("operator account is not configured")
	}
	return n.push.PushToAccount(n.account, title, body, ext)
}
