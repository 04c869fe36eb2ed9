package config

import (
	"fmt"

	"github.com/anoideaopen/storagepay/core/types"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Message and field names of the config schema:
//
//	message CollectorEndpoint { string endpoint = 1; }
//	message Config {
//	  string owner = 1;
//	  string treasury = 2;
//	  string stx_to_token_rate = 3;
//	  CollectorEndpoint tracing_collector_endpoint = 4;
//	}
//	message InitArgs {
//	  string treasury = 1;
//	  string stx_to_token_rate = 2;
//	  CollectorEndpoint tracing_collector_endpoint = 3;
//	}
const (
	fieldOwner    protoreflect.Name = "owner"
	fieldTreasury protoreflect.Name = "treasury"
	fieldStxRate  protoreflect.Name = "stx_to_token_rate"
	fieldTracing  protoreflect.Name = "tracing_collector_endpoint"
	fieldEndpoint protoreflect.Name = "endpoint"
)

const endpointTypeName = ".storagepay.config.CollectorEndpoint"

var (
	endpointDesc protoreflect.MessageDescriptor
	configDesc   protoreflect.MessageDescriptor
	initArgsDesc protoreflect.MessageDescriptor
)

func init() {
	file, err := protodesc.NewFile(schema(), nil)
	if err != nil {
		panic(fmt.Sprintf("building config schema: %s", err))
	}

	messages := file.Messages()
	endpointDesc = messages.ByName("CollectorEndpoint")
	configDesc = messages.ByName("Config")
	initArgsDesc = messages.ByName("InitArgs")
}

func stringField(name protoreflect.Name, number int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(string(name)),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
	}
}

func endpointField(number int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(string(fieldTracing)),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(endpointTypeName),
	}
}

func schema() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("storagepay/config.proto"),
		Package: proto.String("storagepay.config"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("CollectorEndpoint"),
				Field: []*descriptorpb.FieldDescriptorProto{stringField(fieldEndpoint, 1)},
			},
			{
				Name: proto.String("Config"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField(fieldOwner, 1),
					stringField(fieldTreasury, 2),
					stringField(fieldStxRate, 3),
					endpointField(4),
				},
			},
			{
				Name: proto.String("InitArgs"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField(fieldTreasury, 1),
					stringField(fieldStxRate, 2),
					endpointField(3),
				},
			},
		},
	}
}

func field(msg protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	return msg.Descriptor().Fields().ByName(name)
}

func getString(msg protoreflect.Message, name protoreflect.Name) string {
	return msg.Get(field(msg, name)).String()
}

func setString(msg protoreflect.Message, name protoreflect.Name, v string) {
	msg.Set(field(msg, name), protoreflect.ValueOfString(v))
}

func getEndpoint(msg protoreflect.Message) *CollectorEndpoint {
	fd := field(msg, fieldTracing)
	if !msg.Has(fd) {
		return nil
	}
	return &CollectorEndpoint{Endpoint: getString(msg.Get(fd).Message(), fieldEndpoint)}
}

func setEndpoint(msg protoreflect.Message, endpoint *CollectorEndpoint) {
	if endpoint == nil {
		return
	}
	ep := dynamicpb.NewMessage(endpointDesc)
	setString(ep, fieldEndpoint, endpoint.Endpoint)
	msg.Set(field(msg, fieldTracing), protoreflect.ValueOfMessage(ep))
}

// marshalConfig encodes cfg with protojson, the amount as a decimal string.
func marshalConfig(cfg *Config) ([]byte, error) {
	msg := dynamicpb.NewMessage(configDesc)
	setString(msg, fieldOwner, cfg.Owner.String())
	setString(msg, fieldTreasury, cfg.Treasury.String())
	setString(msg, fieldStxRate, types.FormatAmount(cfg.StxToTokenRate))
	setEndpoint(msg, cfg.TracingCollectorEndpoint)

	return protojson.Marshal(msg)
}

func unmarshalConfig(data []byte) (*Config, error) {
	msg := dynamicpb.NewMessage(configDesc)
	if err := protojson.Unmarshal(data, msg); err != nil {
		return nil, err
	}

	owner, err := types.AddrFromBase58Check(getString(msg, fieldOwner))
	if err != nil {
		return nil, fmt.Errorf("parsing owner: %w", err)
	}
	treasury, err := types.AddrFromBase58Check(getString(msg, fieldTreasury))
	if err != nil {
		return nil, fmt.Errorf("parsing treasury: %w", err)
	}
	stxRate, err := types.ParseAmount(getString(msg, fieldStxRate))
	if err != nil {
		return nil, fmt.Errorf("parsing stxToTokenRate: %w", err)
	}

	return &Config{
		Owner:                    owner,
		Treasury:                 treasury,
		StxToTokenRate:           stxRate,
		TracingCollectorEndpoint: getEndpoint(msg),
	}, nil
}
