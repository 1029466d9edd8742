package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pulumi/pulumi-digitalocean/sdk/v4/go/digitalocean"
	"github.com/pulumi/pulumi-kubernetes/sdk/v4/go/kubernetes"
	corev1 "github.com/pulumi/pulumi-kubernetes/sdk/v4/go/kubernetes/core/v1"
	metav1 "github.com/pulumi/pulumi-kubernetes/sdk/v4/go/kubernetes/meta/v1"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// stackConfig holds the knobs read from the Pulumi stack
type stackConfig struct {
	Region          string
	NodeSize        string
	NodeCount       int
	Environment     string
	VenueServiceURL string
	StaffEmail      string
	RegistryToken   string
}

func loadStackConfig(ctx *pulumi.Context) stackConfig {
	cfg := config.New(ctx, "")
	sc := stackConfig{
		Region:          cfg.Get("region"),
		NodeSize:        cfg.Get("nodeSize"),
		NodeCount:       cfg.GetInt("nodeCount"),
		Environment:     cfg.Get("environment"),
		VenueServiceURL: cfg.Get("venueServiceUrl"),
		StaffEmail:      cfg.Get("staffEmail"),
	}
	if sc.Region == "" {
		sc.Region = "lon1"
	}
	if sc.NodeSize == "" {
		sc.NodeSize = "s-2vcpu-4gb"
	}
	if sc.NodeCount == 0 {
		sc.NodeCount = 2
	}
	if sc.Environment == "" {
		sc.Environment = "production"
	}
	if sc.VenueServiceURL == "" {
		sc.VenueServiceURL = "http://venues.thamco.svc.cluster.local"
	}
	if sc.StaffEmail == "" {
		sc.StaffEmail = "events-team@thamco.example"
	}

	sc.RegistryToken = os.Getenv("DIGITALOCEAN_ACCESS_TOKEN")
	if sc.RegistryToken == "" {
		sc.RegistryToken = cfg.Get("digitalocean:token")
	}
	return sc
}

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		return provision(ctx, loadStackConfig(ctx))
	})
}

// provision creates the cluster, the managed Postgres, Valkey and Kafka
// clusters, and the namespace config the events and notification services read.
func provision(ctx *pulumi.Context, sc stackConfig) error {
	vpc, err := digitalocean.NewVpc(ctx, "thamco-events-vpc", &digitalocean.VpcArgs{
		Name:    pulumi.String("thamco-events-vpc"),
		Region:  pulumi.String(sc.Region),
		IpRange: pulumi.String("10.20.0.0/16"),
	})
	if err != nil {
		return err
	}

	cluster, err := digitalocean.NewKubernetesCluster(ctx, "thamco-events-cluster", &digitalocean.KubernetesClusterArgs{
		Name:    pulumi.String("thamco-events-cluster"),
		Region:  pulumi.String(sc.Region),
		Version: pulumi.String("1.31.9-do.2"),
		VpcUuid: vpc.ID(),
		NodePool: &digitalocean.KubernetesClusterNodePoolArgs{
			Name:      pulumi.String("default"),
			Size:      pulumi.String(sc.NodeSize),
			NodeCount: pulumi.Int(sc.NodeCount),
		},
	})
	if err != nil {
		return err
	}

	database, err := digitalocean.NewDatabaseCluster(ctx, "thamco-events-postgres", &digitalocean.DatabaseClusterArgs{
		Name:               pulumi.String("thamco-events-postgres"),
		Engine:             pulumi.String("pg"),
		Version:            pulumi.String("15"),
		Size:               pulumi.String("db-s-1vcpu-1gb"),
		Region:             pulumi.String(sc.Region),
		NodeCount:          pulumi.Int(1),
		PrivateNetworkUuid: vpc.ID(),
	})
	if err != nil {
		return err
	}

	// Valkey is Redis-compatible and backs the event types and event detail cache
	valkeyCluster, err := digitalocean.NewDatabaseCluster(ctx, "thamco-events-valkey", &digitalocean.DatabaseClusterArgs{
		Name:               pulumi.String("thamco-events-valkey"),
		Engine:             pulumi.String("valkey"),
		Version:            pulumi.String("8"),
		Size:               pulumi.String("db-s-1vcpu-1gb"),
		Region:             pulumi.String(sc.Region),
		NodeCount:          pulumi.Int(1),
		PrivateNetworkUuid: vpc.ID(),
	})
	if err != nil {
		return err
	}

	kafkaCluster, err := digitalocean.NewDatabaseCluster(ctx, "thamco-events-kafka", &digitalocean.DatabaseClusterArgs{
		Name:               pulumi.String("thamco-events-kafka"),
		Engine:             pulumi.String("kafka"),
		Version:            pulumi.String("3.8"),
		Size:               pulumi.String("db-s-2vcpu-2gb"),
		Region:             pulumi.String(sc.Region),
		NodeCount:          pulumi.Int(3),
		PrivateNetworkUuid: vpc.ID(),
	})
	if err != nil {
		return err
	}

	k8sProvider, err := kubernetes.NewProvider(ctx, "k8s-provider", &kubernetes.ProviderArgs{
		Kubeconfig: cluster.KubeConfigs.Index(pulumi.Int(0)).RawConfig(),
	})
	if err != nil {
		return err
	}

	namespace, err := corev1.NewNamespace(ctx, "thamco-events-namespace", &corev1.NamespaceArgs{
		Metadata: &metav1.ObjectMetaArgs{
			Name: pulumi.String("thamco-events"),
		},
	}, pulumi.Provider(k8sProvider))
	if err != nil {
		return err
	}

	// Keys match the env tags in events-service/config and notification-service/config
	_, err = corev1.NewConfigMap(ctx, "thamco-events-config", &corev1.ConfigMapArgs{
		Metadata: &metav1.ObjectMetaArgs{
			Name:      pulumi.String("thamco-events-config"),
			Namespace: namespace.Metadata.Name(),
		},
		Data: pulumi.StringMap{
			"APP_ENV":                  pulumi.String(sc.Environment),
			"DB_HOST":                  database.Host,
			"DB_PORT":                  pulumi.Sprintf("%v", database.Port),
			"DB_NAME":                  database.Database,
			"DB_USER":                  database.User,
			"DB_SSL_MODE":              pulumi.String("require"),
			"REDIS_HOST":               valkeyCluster.Host,
			"REDIS_PORT":               pulumi.Sprintf("%v", valkeyCluster.Port),
			"KAFKA_BROKERS":            pulumi.Sprintf("%s:%v", kafkaCluster.Host, kafkaCluster.Port),
			"KAFKA_NOTIFICATION_TOPIC": pulumi.String("event-notifications"),
			"VENUE_SERVICE_URL":        pulumi.String(sc.VenueServiceURL),
			"STAFF_EMAIL":              pulumi.String(sc.StaffEmail),
		},
	}, pulumi.Provider(k8sProvider))
	if err != nil {
		return err
	}

	_, err = corev1.NewSecret(ctx, "thamco-events-secret", &corev1.SecretArgs{
		Metadata: &metav1.ObjectMetaArgs{
			Name:      pulumi.String("thamco-events-secret"),
			Namespace: namespace.Metadata.Name(),
		},
		StringData: pulumi.StringMap{
			"DB_PASSWORD":    database.Password,
			"REDIS_PASSWORD": valkeyCluster.Password,
			"KAFKA_PASSWORD": kafkaCluster.Password,
		},
	}, pulumi.Provider(k8sProvider))
	if err != nil {
		return err
	}

	if sc.RegistryToken != "" {
		if err := registryPullSecret(ctx, k8sProvider, namespace, sc.RegistryToken); err != nil {
			return err
		}
	}

	ctx.Export("clusterName", cluster.Name)
	ctx.Export("kubeconfig", cluster.KubeConfigs.Index(pulumi.Int(0)).RawConfig())
	ctx.Export("databaseHost", database.Host)
	ctx.Export("databasePort", database.Port)
	ctx.Export("redisHost", valkeyCluster.Host)
	ctx.Export("redisPort", valkeyCluster.Port)
	ctx.Export("kafkaHost", kafkaCluster.Host)
	ctx.Export("kafkaPort", kafkaCluster.Port)
	ctx.Export("vpcId", vpc.ID())

	return nil
}

// registryPullSecret lets the default service account pull images from the DigitalOcean registry
func registryPullSecret(ctx *pulumi.Context, provider *kubernetes.Provider, namespace *corev1.Namespace, token string) error {
	dockerConfig := map[string]interface{}{
		"auths": map[string]interface{}{
			"registry.digitalocean.com": map[string]interface{}{
				"username": "token",
				"password": token,
				"auth":     base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("token:%s", token))),
			},
		},
	}
	configJSON, err := json.Marshal(dockerConfig)
	if err != nil {
		return err
	}

	registrySecret, err := corev1.NewSecret(ctx, "registry-secret", &corev1.SecretArgs{
		Metadata: &metav1.ObjectMetaArgs{
			Name:      pulumi.String("regcred"),
			Namespace: namespace.Metadata.Name(),
		},
		Type: pulumi.String("kubernetes.io/dockerconfigjson"),
		Data: pulumi.StringMap{
			".dockerconfigjson": pulumi.String(base64.StdEncoding.EncodeToString(configJSON)),
		},
	}, pulumi.Provider(provider))
	if err != nil {
		return err
	}

	_, err = corev1.NewServiceAccount(ctx, "default-service-account", &corev1.ServiceAccountArgs{
		Metadata: &metav1.ObjectMetaArgs{
			Name:      pulumi.String("default"),
			Namespace: namespace.Metadata.Name(),
		},
		ImagePullSecrets: corev1.LocalObjectReferenceArray{
			&corev1.LocalObjectReferenceArgs{
				Name: registrySecret.Metadata.Name(),
			},
		},
	}, pulumi.Provider(provider), pulumi.DependsOn([]pulumi.Resource{registrySecret}))
	return err
}
