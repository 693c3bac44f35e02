// Package kubernetes wires a SendExternal boundary to a batch Job run
// per payload, grounded on the teacher's components/kubernetes
// Terminus (no Initium there either — a k8s Job is sink-only).
package kubernetes

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/hydroflow-go/hydro/expr"
)

// Sink returns an expr.Expr carrying a func(interface{}) error that
// launches one Job per payload, passing it as a base64-encoded PAYLOAD
// env var.
func Sink(v *viper.Viper) (expr.Expr, error) {
	name := v.GetString("name")
	namespace := v.GetString("namespace")
	inCluster := v.GetBool("in_cluster")
	labels := v.GetStringMapString("labels")
	image := v.GetString("image")
	command := v.GetStringSlice("command")
	args := v.GetStringSlice("args")
	deadline := v.GetInt64("deadline")

	clientset, err := client(inCluster)
	if err != nil {
		return expr.Expr{}, fmt.Errorf("kubernetes sink: %w", err)
	}

	fn := func(payload interface{}) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("kubernetes sink: marshal: %w", err)
		}
		id := uuid.New().String()
		_, err = clientset.BatchV1().Jobs(namespace).Create(context.Background(), &batchv1.Job{
			ObjectMeta: metav1.ObjectMeta{Name: name + "-" + id, Namespace: namespace, Labels: labels},
			Spec: batchv1.JobSpec{
				Template: corev1.PodTemplateSpec{
					ObjectMeta: metav1.ObjectMeta{Name: name + "-" + id, Namespace: namespace, Labels: labels},
					Spec: corev1.PodSpec{
						ActiveDeadlineSeconds: &deadline,
						RestartPolicy:         corev1.RestartPolicyNever,
						Containers: []corev1.Container{{
							Name:    name,
							Image:   image,
							Command: command,
							Args:    args,
							Env:     []corev1.EnvVar{{Name: "PAYLOAD", Value: base64.StdEncoding.EncodeToString(data)}},
						}},
					},
				},
			},
		}, metav1.CreateOptions{})
		return err
	}

	return expr.NewClosure(fmt.Sprintf("kubernetes_sink:%s", name), expr.Span{}, fn), nil
}

func client(inCluster bool) (*kubernetes.Clientset, error) {
	if inCluster {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, err
		}
		return kubernetes.NewForConfig(config)
	}

	kubeconfig := filepath.Join(homeDir(), ".kube", "config")
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, err
	}
	return kubernetes.NewForConfig(config)
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	return os.Getenv("USERPROFILE")
}
